package tui

import (
	"strconv"

	"github.com/james-see/melodygen/pkg/generator"
	"github.com/james-see/melodygen/pkg/theory"
	"github.com/james-see/melodygen/pkg/timing"
)

const off = "off"

// field is one parameter the user cycles through with left/right
type field struct {
	key    string
	label  string
	values []string
	index  int
}

func (f field) value() string {
	return f.values[f.index]
}

func (f *field) next() {
	f.index = (f.index + 1) % len(f.values)
}

func (f *field) prev() {
	f.index = (f.index + len(f.values) - 1) % len(f.values)
}

// selectValue points the field at v when present
func (f *field) selectValue(v string) {
	for i, candidate := range f.values {
		if candidate == v {
			f.index = i
			return
		}
	}
}

var tempos = []string{"60", "70", "80", "90", "100", "110", "120", "130", "140", "160", "180"}

func withOff(values []string) []string {
	return append([]string{off}, values...)
}

func newField(key, label string, values []string, initial string) field {
	f := field{key: key, label: label, values: values}
	f.selectValue(initial)
	return f
}

func melodyFields() []field {
	return []field{
		newField("root", "Root note", theory.NoteNames(), generator.DefaultRoot),
		newField("mode", "Scale", theory.ScaleNames(), generator.DefaultMode),
		newField("bpm", "Tempo", tempos, strconv.Itoa(generator.DefaultBPM)),
		newField("bars", "Bars", []string{"1", "2", "4", "8", "16"}, strconv.Itoa(generator.DefaultMelodyBars)),
		newField("rhythm", "Rhythm", generator.RhythmPatterns(), generator.DefaultRhythm),
		newField("octave", "Octave", []string{"3", "4", "5", "6"}, strconv.Itoa(generator.DefaultMelodyOctave)),
		newField("swing", "Swing", withOff(timing.SwingAmounts()), off),
		newField("humanize", "Humanize", []string{off, "on"}, off),
	}
}

const randomInversion = "random"

func chordFields() []field {
	progressions := append(theory.ProgressionNames(), generator.RandomProgression)
	return []field{
		newField("root", "Root note", theory.NoteNames(), generator.DefaultRoot),
		newField("mode", "Scale", theory.ScaleNames(), generator.DefaultMode),
		newField("progression", "Progression", progressions, "basic"),
		newField("bpm", "Tempo", tempos, strconv.Itoa(generator.DefaultBPM)),
		newField("bars", "Bars", []string{"auto", "4", "8", "12", "16"}, "auto"),
		newField("extension", "Extension", theory.Extensions(), string(theory.Triad)),
		newField("inversion", "Inversion", []string{"0", "1", "2", "3", randomInversion}, "0"),
		newField("strum", "Strum in", timing.StrumPatterns(), "none"),
		newField("strum_out", "Strum out", timing.StrumPatterns(), "none"),
		newField("timing", "Timing", []string{generator.TimingTight, generator.TimingRegular}, generator.TimingTight),
		newField("humanize", "Humanize", []string{off, "on"}, off),
	}
}

func arpeggioFields() []field {
	return []field{
		newField("root", "Root note", theory.NoteNames(), generator.DefaultRoot),
		newField("mode", "Scale", theory.ScaleNames(), generator.DefaultMode),
		newField("pattern", "Pattern", generator.ArpeggioPatterns(), generator.ArpeggioUp),
		newField("bpm", "Tempo", tempos, strconv.Itoa(generator.DefaultBPM)),
		newField("bars", "Bars", []string{"auto", "1", "2", "4", "8"}, "auto"),
		newField("octave", "Octave", []string{"3", "4", "5", "6"}, strconv.Itoa(generator.DefaultMelodyOctave)),
		newField("swing", "Swing", withOff(timing.SwingAmounts()), off),
		newField("humanize", "Humanize", []string{off, "on"}, off),
	}
}

// buildParams turns the form into a request
func buildParams(kind generator.Kind, fields []field) generator.Params {
	p := generator.Params{Kind: kind}
	for _, f := range fields {
		v := f.value()
		switch f.key {
		case "root":
			p.RootNote = v
		case "mode":
			p.Mode = v
		case "progression":
			p.ProgressionType = v
		case "bpm":
			p.BPM, _ = strconv.Atoi(v)
		case "bars":
			p.Bars, _ = strconv.Atoi(v) // "auto" leaves zero
		case "rhythm":
			p.RhythmPattern = v
		case "octave":
			p.Octave, _ = strconv.Atoi(v)
		case "swing":
			if v != off {
				p.UseSwing = true
				p.SwingType = v
			}
		case "humanize":
			p.UseHumanization = v == "on"
		case "extension":
			p.Extension = v
		case "inversion":
			if v == randomInversion {
				p.Inversion = generator.RandomInversion
			} else {
				p.Inversion, _ = strconv.Atoi(v)
			}
		case "strum":
			p.Strum = v
		case "strum_out":
			p.StrumOut = v
		case "timing":
			p.TimingMode = v
		case "pattern":
			p.ArpeggioPattern = v
		}
	}
	return p
}
