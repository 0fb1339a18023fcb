// Package generator turns generation parameters into timed note tracks
package generator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/james-see/melodygen/pkg/theory"
	"github.com/james-see/melodygen/pkg/timing"
)

// Validation errors
var (
	ErrEmptyRequest  = errors.New("empty request")
	ErrInvalidParams = errors.New("invalid parameters")
	ErrUnknownKind   = errors.New("unknown request kind")
)

// Kind selects what is generated
type Kind string

const (
	KindMelody   Kind = "melody"
	KindChords   Kind = "chords"
	KindArpeggio Kind = "arpeggio"
)

// Default values applied by Params.WithDefaults
const (
	DefaultBPM          = 120
	DefaultMode         = "major"
	DefaultRoot         = "C"
	DefaultMelodyOctave = 5
	DefaultChordOctave  = 4
	DefaultMelodyBars   = 4
)

// Length limits. MaxBars of 4/4 bars at timing.Resolution stays far below
// the largest delta a track can encode, and no rhythm step is long enough
// for MaxNotes notes to get there either.
const (
	MaxBars              = 1024
	MaxNotes             = 16384
	MaxProgressionLength = 16
)

// RandomInversion picks an inversion per chord from the seeded stream
const RandomInversion = 4

// Chord timing modes
const (
	// TimingTight holds every chord up to the next bar line
	TimingTight = "tight"
	// TimingRegular releases each chord a beat early, leaving a rest
	TimingRegular = "regular"
)

// Params is one generation request. It is read-only once generation starts.
type Params struct {
	Kind              Kind   `json:"kind" yaml:"kind"`
	// Note name or pitch class "0"-"11"
	RootNote          string `json:"root_note" yaml:"root_note"`
	Mode              string `json:"mode" yaml:"mode"`
	// Preset, "random", "I-IV-V-I" or "1-4-5-1"
	ProgressionType   string `json:"progression_type" yaml:"progression_type"`
	// Chords drawn for a random progression, 2-16
	ProgressionLength int    `json:"progression_length,omitempty" yaml:"progression_length,omitempty"`
	BPM               int    `json:"bpm" yaml:"bpm"`
	Notes             int    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Bars              int    `json:"bars,omitempty" yaml:"bars,omitempty"`
	RhythmPattern     string `json:"rhythm_pattern,omitempty" yaml:"rhythm_pattern,omitempty"`
	ArpeggioPattern   string `json:"arpeggio_pattern,omitempty" yaml:"arpeggio_pattern,omitempty"`

	UseSwing           bool    `json:"use_swing" yaml:"use_swing"`
	SwingType          string  `json:"swing_type,omitempty" yaml:"swing_type,omitempty"`
	UseHumanization    bool    `json:"use_humanization" yaml:"use_humanization"`
	HumanizationAmount float64 `json:"humanization_amount,omitempty" yaml:"humanization_amount,omitempty"`
	Seed               *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// 0 selects the kind's default
	Octave     int    `json:"octave,omitempty" yaml:"octave,omitempty"`
	Extension  string `json:"extension,omitempty" yaml:"extension,omitempty"`
	// 0-3, or RandomInversion
	Inversion  int    `json:"inversion,omitempty" yaml:"inversion,omitempty"`
	Strum      string `json:"strum,omitempty" yaml:"strum,omitempty"`
	StrumOut   string `json:"strum_out,omitempty" yaml:"strum_out,omitempty"`
	TimingMode string `json:"timing_mode,omitempty" yaml:"timing_mode,omitempty"`
	Channel    uint8  `json:"channel,omitempty" yaml:"channel,omitempty"`
}

// WithDefaults returns a copy with empty fields filled in. Melody requests
// without any length get DefaultMelodyBars; the seed is left untouched.
func (p Params) WithDefaults() Params {
	if p.Kind == "" {
		p.Kind = KindMelody
	}
	if p.RootNote == "" {
		p.RootNote = DefaultRoot
	}
	if p.Mode == "" {
		p.Mode = DefaultMode
	}
	if p.BPM == 0 {
		p.BPM = DefaultBPM
	}
	if p.Kind == KindMelody && p.Notes == 0 && p.Bars == 0 {
		p.Bars = DefaultMelodyBars
	}
	return p
}

// ParseKind accepts "melody", "chords", "chord" and "arpeggio"
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "melody":
		return KindMelody, nil
	case "chords", "chord", "chord_progression", "chord-progression":
		return KindChords, nil
	case "arpeggio", "arp":
		return KindArpeggio, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// RootPitchClass resolves RootNote to a pitch class
func (p Params) RootPitchClass() (int, error) {
	s := strings.TrimSpace(p.RootNote)
	if s == "" {
		s = DefaultRoot
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 11 {
			return 0, fmt.Errorf("%w: pitch class %d", theory.ErrUnknownNote, n)
		}
		return n, nil
	}
	return theory.ParseNote(s)
}

func (p Params) mode() string {
	if p.Mode == "" {
		return DefaultMode
	}
	return p.Mode
}

func (p Params) validate() error {
	if p.Notes < 0 || p.Bars < 0 {
		return fmt.Errorf("%w: negative length", ErrInvalidParams)
	}
	if p.Notes > MaxNotes {
		return fmt.Errorf("%w: %d notes (max %d)", ErrInvalidParams, p.Notes, MaxNotes)
	}
	if p.Bars > MaxBars {
		return fmt.Errorf("%w: %d bars (max %d)", ErrInvalidParams, p.Bars, MaxBars)
	}
	if p.ProgressionLength != 0 && (p.ProgressionLength < 2 || p.ProgressionLength > MaxProgressionLength) {
		return fmt.Errorf("%w: progression length %d (2-%d)", ErrInvalidParams, p.ProgressionLength, MaxProgressionLength)
	}
	if p.Channel > 15 {
		return fmt.Errorf("%w: channel %d (0-15)", ErrInvalidParams, p.Channel)
	}
	if p.Octave < 0 || p.Octave > 10 {
		return fmt.Errorf("%w: octave %d (0-10)", ErrInvalidParams, p.Octave)
	}
	if p.Inversion < 0 || p.Inversion > RandomInversion {
		return fmt.Errorf("%w: inversion %d (0-%d)", ErrInvalidParams, p.Inversion, RandomInversion)
	}
	switch p.TimingMode {
	case "", TimingTight, TimingRegular:
	default:
		return fmt.Errorf("%w: timing mode %q (%s or %s)", ErrInvalidParams, p.TimingMode, TimingTight, TimingRegular)
	}
	if p.HumanizationAmount < 0 || p.HumanizationAmount > 1 {
		return fmt.Errorf("%w: humanization amount %g (0-1)", ErrInvalidParams, p.HumanizationAmount)
	}
	return nil
}

// IsValidation reports whether err was caused by bad input rather than an
// internal failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyRequest) ||
		errors.Is(err, ErrInvalidParams) ||
		errors.Is(err, ErrUnknownKind) ||
		errors.Is(err, theory.ErrUnknownScale) ||
		errors.Is(err, theory.ErrUnknownProgression) ||
		errors.Is(err, theory.ErrUnknownNote) ||
		errors.Is(err, timing.ErrUnsupportedDuration) ||
		errors.Is(err, timing.ErrInvalidTempo)
}
