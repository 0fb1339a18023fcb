// Package midigen assembles generated tracks into Standard MIDI Files
package midigen

import (
	"github.com/james-see/melodygen/pkg/generator"
)

// Result holds one assembled file
type Result struct {
	Data     []byte
	Filename string
	Kind     generator.Kind
	Seed     uint64 // seed actually used, so the file can be regenerated
	Notes    int
}

// Note is a decoded note-on/note-off pair
type Note struct {
	Channel  uint8  `json:"channel"`
	Pitch    uint8  `json:"pitch"`
	Velocity uint8  `json:"velocity"`
	Start    uint32 `json:"start"`
	Duration uint32 `json:"duration"`
}

// Summary describes a decoded SMF
type Summary struct {
	Format     uint16  `json:"format"`
	Tracks     int     `json:"tracks"`
	Resolution uint16  `json:"resolution"`
	Tempo      uint32  `json:"tempo_us_per_quarter"`
	BPM        float64 `json:"bpm"`
	Notes      []Note  `json:"notes"`
	EndTick    uint32  `json:"end_tick"`
	Unmatched  int     `json:"unmatched,omitempty"` // note-ons never released
}

// Options lists every value a request may name
type Options struct {
	Scales           []string          `json:"scales"`
	RhythmPatterns   []string          `json:"rhythm_patterns"`
	Progressions     []string          `json:"chord_progressions"`
	Numerals         map[string]string `json:"progression_numerals"`
	Notes            []string          `json:"notes"`
	SwingAmounts     []string          `json:"swing_amounts"`
	StrumPatterns    []string          `json:"strum_patterns"`
	Extensions       []string          `json:"extensions"`
	Durations        []string          `json:"durations"`
	ArpeggioPatterns []string          `json:"arpeggio_patterns"`
	TimingModes      []string          `json:"timing_modes"`
}
