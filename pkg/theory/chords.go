package theory

import (
	"fmt"
	"sort"
	"strings"
)

// Extension selects how many stacked thirds make up a diatonic chord
type Extension string

const (
	Triad      Extension = "triad"
	Seventh    Extension = "seventh"
	Ninth      Extension = "ninth"
	Eleventh   Extension = "eleventh"
	Thirteenth Extension = "thirteenth"
)

var extensionTones = map[Extension]int{
	Triad:      3,
	Seventh:    4,
	Ninth:      5,
	Eleventh:   6,
	Thirteenth: 7,
}

// qualityNames names the interval sets produced by stacking thirds
var qualityNames = map[string]string{
	"0,4,7":             "major",
	"0,3,7":             "minor",
	"0,3,6":             "dim",
	"0,4,8":             "aug",
	"0,4,7,11":          "maj7",
	"0,3,7,10":          "min7",
	"0,4,7,10":          "dom7",
	"0,3,6,10":          "hdim7",
	"0,3,6,9":           "dim7",
	"0,3,7,11":          "minmaj7",
	"0,4,8,11":          "augmaj7",
	"0,4,7,11,14":       "maj9",
	"0,3,7,10,14":       "min9",
	"0,4,7,10,14":       "dom9",
	"0,4,7,11,14,17":    "maj11",
	"0,3,7,10,14,17":    "min11",
	"0,4,7,10,14,17":    "dom11",
	"0,4,7,11,14,17,21": "maj13",
	"0,3,7,10,14,17,21": "min13",
	"0,4,7,10,14,17,21": "dom13",
}

var romanNumerals = []string{"i", "ii", "iii", "iv", "v", "vi", "vii"}

// Chord is a chord root plus its quality as an interval set. Duration is
// assigned by the generator when the chord is placed in time.
type Chord struct {
	Degree   int    // Zero-based scale degree of the chord root
	Root     int    // Pitch class of the chord root
	Quality  []int  // Semitone intervals above the chord root
	Name     string // Quality name, "custom" when unnamed
	Numeral  string // Roman numeral, upper case for major thirds
	Duration uint32 // Ticks
}

// ParseExtension resolves an extension name. Empty selects Triad.
func ParseExtension(name string) (Extension, error) {
	if name == "" {
		return Triad, nil
	}
	ext := Extension(normalizeName(name))
	if _, ok := extensionTones[ext]; !ok {
		return "", fmt.Errorf("unknown chord extension %q", name)
	}
	return ext, nil
}

// Extensions returns the supported extension names from smallest to largest
func Extensions() []string {
	return []string{string(Triad), string(Seventh), string(Ninth), string(Eleventh), string(Thirteenth)}
}

// DiatonicChord builds the chord on a zero-based degree by stacking every
// other scale tone.
func (s Scale) DiatonicChord(degree int, ext Extension) Chord {
	tones, ok := extensionTones[ext]
	if !ok {
		tones = extensionTones[Triad]
	}
	base := s.Offset(degree)
	quality := make([]int, tones)
	for i := range quality {
		quality[i] = s.Offset(degree+2*i) - base
	}
	name := QualityName(quality)
	return Chord{
		Degree:  degree,
		Root:    ((s.Root+base)%12 + 12) % 12,
		Quality: quality,
		Name:    name,
		Numeral: numeralFor(degree, quality),
	}
}

// QualityName returns the name of an interval set, or "custom"
func QualityName(intervals []int) string {
	parts := make([]string, len(intervals))
	for i, v := range intervals {
		parts[i] = fmt.Sprint(v)
	}
	if name, ok := qualityNames[strings.Join(parts, ",")]; ok {
		return name
	}
	return "custom"
}

func numeralFor(degree int, quality []int) string {
	n := romanNumerals[degree%len(romanNumerals)]
	if len(quality) > 1 && quality[1] == 4 {
		n = strings.ToUpper(n)
	}
	if len(quality) > 2 && quality[2] == 6 {
		n += "°"
	}
	return n
}

// Voice returns the absolute pitches of a chord rooted in the given octave,
// with the requested inversion applied. Octave 4 places C at 48.
func (c Chord) Voice(octave, inversion int) []uint8 {
	pitches := make([]int, len(c.Quality))
	for i, iv := range c.Quality {
		pitches[i] = c.Root + 12*octave + iv
	}
	pitches = Invert(pitches, inversion)
	out := make([]uint8, 0, len(pitches))
	for _, p := range pitches {
		v := ClampPitch(p)
		// clamping at the edges of the range can fold tones together
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Invert moves the lowest n tones up an octave. n is clamped to len-1.
func Invert(pitches []int, n int) []int {
	if n <= 0 || len(pitches) < 2 {
		return pitches
	}
	if n > len(pitches)-1 {
		n = len(pitches) - 1
	}
	out := make([]int, 0, len(pitches))
	out = append(out, pitches[n:]...)
	for _, p := range pitches[:n] {
		out = append(out, p+12)
	}
	sort.Ints(out)
	return out
}
