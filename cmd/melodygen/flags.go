package main

import (
	"github.com/spf13/pflag"

	"github.com/james-see/melodygen/pkg/generator"
)

// genFlags holds the generation flags shared by the generate commands.
// Only flags the user actually set override a preset.
type genFlags struct {
	preset     string
	savePreset string
	output     string
	values     generator.Params
	seed       uint64
}

func (g *genFlags) register(fs *pflag.FlagSet, kind generator.Kind) {
	fs.StringVar(&g.preset, "preset", "", "Load parameters from a YAML or JSON preset")
	fs.StringVar(&g.savePreset, "save-preset", "", "Save the resolved parameters as a YAML preset")
	fs.StringVarP(&g.output, "output", "o", "", "Output file path (default: generated name in the output dir)")

	fs.StringVarP(&g.values.RootNote, "root", "r", generator.DefaultRoot, "Root note name or pitch class 0-11")
	fs.StringVarP(&g.values.Mode, "mode", "m", generator.DefaultMode, "Scale or mode")
	fs.IntVarP(&g.values.BPM, "bpm", "t", generator.DefaultBPM, "Tempo in beats per minute")
	fs.IntVarP(&g.values.Bars, "bars", "b", 0, "Length in 4/4 bars")
	fs.IntVar(&g.values.Octave, "octave", 0, "Octave (0 selects the default)")
	fs.Uint8Var(&g.values.Channel, "channel", 0, "MIDI channel 0-15")
	fs.BoolVar(&g.values.UseSwing, "swing", false, "Apply swing to off-beat eighths")
	fs.StringVar(&g.values.SwingType, "swing-type", "", "Swing amount (light, medium, heavy, extreme)")
	fs.BoolVar(&g.values.UseHumanization, "humanize", false, "Apply seeded velocity and timing variation")
	fs.Float64Var(&g.values.HumanizationAmount, "humanize-amount", 0, "Humanization scale 0-1 (0 means 1)")
	fs.Uint64Var(&g.seed, "seed", 0, "Random seed (random when unset)")

	switch kind {
	case generator.KindMelody:
		fs.IntVarP(&g.values.Notes, "notes", "n", 0, "Length in notes (overrides --bars)")
		fs.StringVar(&g.values.RhythmPattern, "rhythm", generator.DefaultRhythm, "Rhythm pattern")
	case generator.KindChords:
		fs.StringVarP(&g.values.ProgressionType, "progression", "p", "basic", `Preset name, "random", "I-IV-V-I" or "1-4-5-1"`)
		fs.IntVar(&g.values.ProgressionLength, "progression-length", 0, "Chords in a random progression, 2-16 (default 4)")
		fs.StringVar(&g.values.Extension, "extension", "triad", "Chord extension (triad, seventh, ninth, eleventh, thirteenth)")
		fs.IntVar(&g.values.Inversion, "inversion", 0, "Chord inversion 0-3, or 4 for a random inversion per chord")
		fs.StringVar(&g.values.Strum, "strum", "none", "Strum pattern for the attack")
		fs.StringVar(&g.values.StrumOut, "strum-out", "none", "Strum pattern for the release")
		fs.StringVar(&g.values.TimingMode, "timing-mode", generator.TimingTight, "Chord timing (tight or regular)")
	case generator.KindArpeggio:
		fs.IntVarP(&g.values.Notes, "notes", "n", 0, "Length in notes (overrides --bars)")
		fs.StringVar(&g.values.ArpeggioPattern, "pattern", generator.ArpeggioUp, "Arpeggio pattern (up, down, random)")
	}
}

// apply copies every changed flag onto p. When no preset was loaded the
// flag defaults apply as well.
func (g *genFlags) apply(fs *pflag.FlagSet, p *generator.Params, fromPreset bool) {
	set := func(name string, fn func()) {
		if fs.Lookup(name) == nil {
			return
		}
		if !fromPreset || fs.Changed(name) {
			fn()
		}
	}
	v := g.values
	set("root", func() { p.RootNote = v.RootNote })
	set("mode", func() { p.Mode = v.Mode })
	set("bpm", func() { p.BPM = v.BPM })
	set("bars", func() { p.Bars = v.Bars })
	set("octave", func() { p.Octave = v.Octave })
	set("channel", func() { p.Channel = v.Channel })
	set("swing", func() { p.UseSwing = v.UseSwing })
	set("swing-type", func() { p.SwingType = v.SwingType })
	set("humanize", func() { p.UseHumanization = v.UseHumanization })
	set("humanize-amount", func() { p.HumanizationAmount = v.HumanizationAmount })
	set("notes", func() { p.Notes = v.Notes })
	set("rhythm", func() { p.RhythmPattern = v.RhythmPattern })
	set("progression", func() { p.ProgressionType = v.ProgressionType })
	set("extension", func() { p.Extension = v.Extension })
	set("inversion", func() { p.Inversion = v.Inversion })
	set("strum", func() { p.Strum = v.Strum })
	set("strum-out", func() { p.StrumOut = v.StrumOut })
	set("timing-mode", func() { p.TimingMode = v.TimingMode })
	set("progression-length", func() { p.ProgressionLength = v.ProgressionLength })
	set("pattern", func() { p.ArpeggioPattern = v.ArpeggioPattern })

	if fs.Changed("seed") {
		seed := g.seed
		p.Seed = &seed
	}
	if fs.Changed("notes") && !fs.Changed("bars") {
		p.Bars = 0
	}
}
