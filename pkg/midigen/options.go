package midigen

import (
	"github.com/james-see/melodygen/pkg/generator"
	"github.com/james-see/melodygen/pkg/theory"
	"github.com/james-see/melodygen/pkg/timing"
)

// ListOptions returns the names accepted by generation requests. Preset
// progressions come with their roman numerals over a major scale; "random"
// is listed last and has none.
func ListOptions() Options {
	presets := theory.ProgressionNames()
	numerals := make(map[string]string, len(presets))
	for _, name := range presets {
		degrees, err := theory.ProgressionDegrees(name)
		if err != nil {
			continue
		}
		numerals[name] = theory.NumeralString(degrees)
	}
	return Options{
		Scales:           theory.ScaleNames(),
		RhythmPatterns:   generator.RhythmPatterns(),
		Progressions:     append(presets, generator.RandomProgression),
		Numerals:         numerals,
		Notes:            theory.NoteNames(),
		SwingAmounts:     timing.SwingAmounts(),
		StrumPatterns:    timing.StrumPatterns(),
		Extensions:       theory.Extensions(),
		Durations:        timing.Durations(),
		ArpeggioPatterns: generator.ArpeggioPatterns(),
		TimingModes:      []string{generator.TimingTight, generator.TimingRegular},
	}
}
