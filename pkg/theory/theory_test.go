package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleIntervals(t *testing.T) {
	tests := []struct {
		mode     string
		expected []int
	}{
		{"major", []int{0, 2, 4, 5, 7, 9, 11}},
		{"Minor", []int{0, 2, 3, 5, 7, 8, 10}},
		{"ionian", []int{0, 2, 4, 5, 7, 9, 11}},
		{"harmonic-minor", []int{0, 2, 3, 5, 7, 8, 11}},
		{"blues", []int{0, 3, 5, 6, 7, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got, err := ScaleIntervals(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScaleIntervalsUnknown(t *testing.T) {
	_, err := ScaleIntervals("not_a_scale")
	assert.ErrorIs(t, err, ErrUnknownScale)
}

func TestScaleIntervalsReturnsCopy(t *testing.T) {
	got, err := ScaleIntervals("major")
	require.NoError(t, err)
	got[0] = 99

	again, err := ScaleIntervals("major")
	require.NoError(t, err)
	assert.Equal(t, 0, again[0])
}

func TestParseNote(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"C", 0}, {"c#", 1}, {"Db", 1}, {"E", 4}, {"F#", 6},
		{"Bb", 10}, {" B ", 11},
	}
	for _, tt := range tests {
		got, err := ParseNote(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := ParseNote("H")
	assert.ErrorIs(t, err, ErrUnknownNote)
}

func TestScalePitch(t *testing.T) {
	s, err := NewScale(0, "major")
	require.NoError(t, err)

	assert.Equal(t, uint8(60), s.Pitch(0, 5))
	assert.Equal(t, uint8(64), s.Pitch(2, 5))
	assert.Equal(t, uint8(72), s.Pitch(7, 5), "degree 7 wraps to the next octave")
	assert.Equal(t, uint8(59), s.Pitch(-1, 5), "degree -1 is the leading tone below")
	assert.Equal(t, uint8(127), s.Pitch(6, 10), "clamped to 127")
	assert.Equal(t, uint8(0), s.Pitch(0, -2), "clamped to 0")
}

func TestNewScaleRejectsBadRoot(t *testing.T) {
	_, err := NewScale(12, "major")
	assert.ErrorIs(t, err, ErrUnknownNote)
}

func TestDiatonicChordQualities(t *testing.T) {
	major, err := NewScale(0, "major")
	require.NoError(t, err)

	expected := []string{"major", "minor", "minor", "major", "major", "minor", "dim"}
	for degree, want := range expected {
		c := major.DiatonicChord(degree, Triad)
		assert.Equal(t, want, c.Name, "degree %d", degree+1)
	}

	sevenths := []string{"maj7", "min7", "min7", "maj7", "dom7", "min7", "hdim7"}
	for degree, want := range sevenths {
		c := major.DiatonicChord(degree, Seventh)
		assert.Equal(t, want, c.Name, "degree %d", degree+1)
	}

	assert.Equal(t, "dom13", major.DiatonicChord(4, Thirteenth).Name)
}

func TestChordVoice(t *testing.T) {
	major, err := NewScale(0, "major")
	require.NoError(t, err)

	g := major.DiatonicChord(4, Triad)
	assert.Equal(t, 7, g.Root)
	assert.Equal(t, "V", g.Numeral)
	assert.Equal(t, []uint8{55, 59, 62}, g.Voice(4, 0))
	assert.Equal(t, []uint8{59, 62, 67}, g.Voice(4, 1))
	assert.Equal(t, []uint8{62, 67, 71}, g.Voice(4, 2))
	assert.Equal(t, []uint8{62, 67, 71}, g.Voice(4, 5), "inversion clamped to chord size")
}

func TestProgressionRomanNumerals(t *testing.T) {
	major, err := NewScale(0, "major")
	require.NoError(t, err)

	chords, err := Progression("I-IV-V-I", major, Triad)
	require.NoError(t, err)
	require.Len(t, chords, 4)

	roots := []int{chords[0].Root, chords[1].Root, chords[2].Root, chords[3].Root}
	assert.Equal(t, []int{0, 5, 7, 0}, roots)
	for _, c := range chords {
		assert.Equal(t, "major", c.Name)
	}
}

func TestProgressionOverMinor(t *testing.T) {
	minor, err := NewScale(9, "minor")
	require.NoError(t, err)

	chords, err := Progression("1-4-5-1", minor, Triad)
	require.NoError(t, err)
	for _, c := range chords {
		assert.Equal(t, "minor", c.Name)
	}
	assert.Equal(t, "i", chords[0].Numeral)
}

func TestProgressionPresets(t *testing.T) {
	degrees, err := ProgressionDegrees("basic")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 5, 3, 4}, degrees)
	assert.Equal(t, "I-vi-IV-V", NumeralString(degrees))

	blues, err := ProgressionDegrees("Blues")
	require.NoError(t, err)
	assert.Len(t, blues, 12)
}

func TestProgressionUnknown(t *testing.T) {
	major, err := NewScale(0, "major")
	require.NoError(t, err)

	for _, id := range []string{"", "nope", "I-VIII", "0-1", "I-X-V"} {
		_, err := Progression(id, major, Triad)
		assert.ErrorIs(t, err, ErrUnknownProgression, id)
	}

	blues, err := NewScale(0, "blues")
	require.NoError(t, err)
	_, err = Progression("I-VII", blues, Triad)
	assert.ErrorIs(t, err, ErrUnknownProgression, "blues scale has six degrees")
}

func TestParseExtension(t *testing.T) {
	ext, err := ParseExtension("")
	require.NoError(t, err)
	assert.Equal(t, Triad, ext)

	ext, err = ParseExtension("Ninth")
	require.NoError(t, err)
	assert.Equal(t, Ninth, ext)

	_, err = ParseExtension("fifteenth")
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	assert.Contains(t, ScaleNames(), "dorian")
	assert.Contains(t, ProgressionNames(), "pachelbel")
	assert.Len(t, NoteNames(), 12)
	assert.Equal(t, "A#", NoteName(-2))
}

func TestPachelbelPreset(t *testing.T) {
	degrees, err := ProgressionDegrees("pachelbel")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 5, 3, 4, 0, 5, 3, 4}, degrees)
	assert.Equal(t, "I-vi-IV-V-I-vi-IV-V", NumeralString(degrees))
}

func TestChordsRejectsOutOfScaleDegrees(t *testing.T) {
	scale, err := NewScale(0, "major")
	require.NoError(t, err)

	chords, err := Chords([]int{0, 6}, scale, Triad)
	require.NoError(t, err)
	assert.Equal(t, "vii°", chords[1].Numeral)

	_, err = Chords([]int{7}, scale, Triad)
	assert.ErrorIs(t, err, ErrUnknownProgression)
	_, err = Chords([]int{-1}, scale, Triad)
	assert.ErrorIs(t, err, ErrUnknownProgression)
}
