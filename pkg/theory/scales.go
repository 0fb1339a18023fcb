// Package theory provides the static music theory tables used by the
// generator: scales and modes, note names, diatonic chord qualities and
// chord progressions.
//
// All tables are read-only after package initialization and are safe for
// concurrent use.
package theory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Lookup errors
var (
	ErrUnknownScale       = errors.New("unknown scale")
	ErrUnknownProgression = errors.New("unknown progression")
	ErrUnknownNote        = errors.New("unknown note")
)

// Scale is a root pitch class plus the semitone intervals of the mode
type Scale struct {
	Name      string
	Root      int   // Pitch class 0-11
	Intervals []int // Ascending semitone offsets from root, starting at 0
}

var scaleModes = map[string][]int{
	"major":          {0, 2, 4, 5, 7, 9, 11},
	"minor":          {0, 2, 3, 5, 7, 8, 10},
	"dorian":         {0, 2, 3, 5, 7, 9, 10},
	"phrygian":       {0, 1, 3, 5, 7, 8, 10},
	"lydian":         {0, 2, 4, 6, 7, 9, 11},
	"mixolydian":     {0, 2, 4, 5, 7, 9, 10},
	"locrian":        {0, 1, 3, 5, 6, 8, 10},
	"harmonic_minor": {0, 2, 3, 5, 7, 8, 11},
	"blues":          {0, 3, 5, 6, 7, 10},
}

var scaleAliases = map[string]string{
	"ionian":  "major",
	"aeolian": "minor",
}

// noteNames maps note spellings to pitch classes. Sharps are canonical.
var noteNames = map[string]int{
	"C": 0, "C#": 1, "DB": 1, "D": 2, "D#": 3, "EB": 3,
	"E": 4, "F": 5, "F#": 6, "GB": 6, "G": 7, "G#": 8,
	"AB": 8, "A": 9, "A#": 10, "BB": 10, "B": 11,
}

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// ScaleIntervals returns the interval set for a mode name
func ScaleIntervals(mode string) ([]int, error) {
	name := normalizeName(mode)
	if alias, ok := scaleAliases[name]; ok {
		name = alias
	}
	intervals, ok := scaleModes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScale, mode)
	}
	out := make([]int, len(intervals))
	copy(out, intervals)
	return out, nil
}

// NewScale builds a Scale for the given root pitch class and mode name
func NewScale(root int, mode string) (Scale, error) {
	if root < 0 || root > 11 {
		return Scale{}, fmt.Errorf("%w: pitch class %d", ErrUnknownNote, root)
	}
	intervals, err := ScaleIntervals(mode)
	if err != nil {
		return Scale{}, err
	}
	return Scale{Name: normalizeName(mode), Root: root, Intervals: intervals}, nil
}

// Len returns the number of tones per octave
func (s Scale) Len() int {
	return len(s.Intervals)
}

// Offset returns the semitone offset from the root for a zero-based scale
// degree. Degrees beyond the scale length wrap into higher octaves and
// negative degrees into lower ones.
func (s Scale) Offset(degree int) int {
	n := len(s.Intervals)
	octave := degree / n
	idx := degree % n
	if idx < 0 {
		idx += n
		octave--
	}
	return octave*12 + s.Intervals[idx]
}

// Pitch maps a zero-based scale degree and octave to a MIDI note number,
// clamped to 0-127. Octave 5 places the root of C at 60.
func (s Scale) Pitch(degree, octave int) uint8 {
	return ClampPitch(s.Root + 12*octave + s.Offset(degree))
}

// ClampPitch clamps a pitch to the MIDI range
func ClampPitch(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > 127 {
		return 127
	}
	return uint8(p)
}

// ParseNote resolves a note name such as "C", "f#" or "Bb" to a pitch class
func ParseNote(name string) (int, error) {
	pc, ok := noteNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, name)
	}
	return pc, nil
}

// NoteName returns the sharp spelling of a pitch class
func NoteName(pc int) string {
	return sharpNames[((pc%12)+12)%12]
}

// ScaleNames returns the supported mode names in sorted order
func ScaleNames() []string {
	names := make([]string, 0, len(scaleModes))
	for name := range scaleModes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NoteNames returns the canonical note names C through B
func NoteNames() []string {
	out := make([]string, len(sharpNames))
	copy(out, sharpNames[:])
	return out
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}
