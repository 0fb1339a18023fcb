package theory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Preset progressions as zero-based scale degrees
var progressionPresets = map[string][]int{
	"basic":        {0, 5, 3, 4},                         // I-vi-IV-V
	"jazz":         {1, 4, 0, 5},                         // ii-V-I-vi
	"blues":        {0, 0, 0, 0, 3, 3, 0, 0, 4, 3, 0, 4}, // 12-bar
	"pop":          {0, 3, 5, 4},                         // I-IV-vi-V
	"jazz_2_5_1":   {1, 4, 0},                            // ii-V-I
	"andalusian":   {5, 4, 3, 2},                         // vi-V-IV-iii
	"pachelbel":    {0, 5, 3, 4, 0, 5, 3, 4},             // I-vi-IV-V twice
	"50s":          {0, 5, 1, 4},                         // I-vi-ii-V
	"minor_epic":   {5, 3, 4, 0},                         // vi-IV-V-I
	"sad":          {0, 5, 3, 4},                         // i-VI-iv-v in minor
	"royal_road":   {0, 5, 1, 4, 0, 5, 3, 4},
	"emotional":    {0, 3, 5, 4, 0, 3, 5, 2},
	"experimental": {0, 2, 5, 6, 1, 4, 3},
}

// ProgressionDegrees resolves a progression identifier to zero-based scale
// degrees. The identifier is either a preset name, a hyphen separated list of
// roman numerals ("I-IV-V-I") or of one-based degree numbers ("1-4-5-1").
func ProgressionDegrees(id string) ([]int, error) {
	name := normalizeName(id)
	if degrees, ok := progressionPresets[name]; ok {
		out := make([]int, len(degrees))
		copy(out, degrees)
		return out, nil
	}

	fields := strings.FieldsFunc(strings.TrimSpace(id), func(r rune) bool {
		return r == '-' || r == '–' || r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProgression, id)
	}
	degrees := make([]int, 0, len(fields))
	for _, f := range fields {
		d, ok := parseDegree(f)
		if !ok {
			return nil, fmt.Errorf("%w: %q: bad chord %q", ErrUnknownProgression, id, f)
		}
		degrees = append(degrees, d)
	}
	return degrees, nil
}

func parseDegree(token string) (int, bool) {
	token = strings.TrimRight(token, "°o+")
	if n, err := strconv.Atoi(token); err == nil {
		if n < 1 || n > len(romanNumerals) {
			return 0, false
		}
		return n - 1, true
	}
	lower := strings.ToLower(token)
	for i, r := range romanNumerals {
		if lower == r {
			return i, true
		}
	}
	return 0, false
}

// Progression expands a progression identifier over a scale into an ordered
// list of diatonic chords. Qualities come from the scale's own stacked
// thirds, so "I-IV-V-I" over minor yields i-iv-v-i.
func Progression(id string, scale Scale, ext Extension) ([]Chord, error) {
	degrees, err := ProgressionDegrees(id)
	if err != nil {
		return nil, err
	}
	return Chords(degrees, scale, ext)
}

// Chords builds the diatonic chord on each zero-based degree of scale
func Chords(degrees []int, scale Scale, ext Extension) ([]Chord, error) {
	chords := make([]Chord, len(degrees))
	for i, d := range degrees {
		if d < 0 || d >= scale.Len() {
			return nil, fmt.Errorf("%w: degree %d outside %s scale", ErrUnknownProgression, d+1, scale.Name)
		}
		chords[i] = scale.DiatonicChord(d, ext)
	}
	return chords, nil
}

// ProgressionNames returns the preset progression names in sorted order
func ProgressionNames() []string {
	names := make([]string, 0, len(progressionPresets))
	for name := range progressionPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NumeralString renders a progression preset as roman numerals over a major
// scale, e.g. "I-vi-IV-V".
func NumeralString(degrees []int) string {
	major := Scale{Name: "major", Intervals: scaleModes["major"]}
	parts := make([]string, len(degrees))
	for i, d := range degrees {
		parts[i] = major.DiatonicChord(d, Triad).Numeral
	}
	return strings.Join(parts, "-")
}
