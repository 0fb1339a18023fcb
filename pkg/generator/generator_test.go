package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/melodygen/pkg/encoder"
	"github.com/james-see/melodygen/pkg/theory"
	"github.com/james-see/melodygen/pkg/timing"
	"github.com/james-see/melodygen/pkg/track"
)

func seed(v uint64) *uint64 { return &v }

func melodyParams() Params {
	return Params{
		Kind:     KindMelody,
		RootNote: "C",
		Mode:     "major",
		BPM:      120,
		Notes:    8,
		Seed:     seed(1),
	}
}

func TestGenerateMelodyBasic(t *testing.T) {
	tr, err := GenerateMelody(melodyParams())
	require.NoError(t, err)
	require.Len(t, tr.Notes, 8)

	assert.Equal(t, 120, tr.BPM)
	assert.Equal(t, "C major melody", tr.Name)
	assert.True(t, track.IsSorted(tr.Notes))

	first, last := tr.Notes[0], tr.Notes[7]
	assert.Equal(t, uint8(60), first.Pitch, "phrase starts on the tonic")
	assert.Equal(t, 0, int(last.Pitch)%12, "phrase ends on a tonic")

	inScale := map[int]bool{0: true, 2: true, 4: true, 5: true, 7: true, 9: true, 11: true}
	for i, n := range tr.Notes {
		assert.True(t, inScale[int(n.Pitch)%12], "note %d pitch %d outside C major", i, n.Pitch)
		assert.Equal(t, uint32(i)*480, n.Start)
		assert.Equal(t, uint32(480), n.Duration)
		assert.Greater(t, n.Velocity, uint8(0))
	}
}

func TestGenerateMelodyDeterministic(t *testing.T) {
	p := melodyParams()
	p.Notes = 32
	p.UseHumanization = true
	p.UseSwing = true
	p.RhythmPattern = "eighths"

	a, err := GenerateMelody(p)
	require.NoError(t, err)
	b, err := GenerateMelody(p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateMelodyStepwise(t *testing.T) {
	p := melodyParams()
	p.Notes = 64
	tr, err := GenerateMelody(p)
	require.NoError(t, err)

	// Step policy never leaps more than a fifth (4 degrees = at most 7 semitones)
	for i := 1; i < len(tr.Notes)-1; i++ {
		diff := int(tr.Notes[i].Pitch) - int(tr.Notes[i-1].Pitch)
		assert.LessOrEqual(t, diff, 7)
		assert.GreaterOrEqual(t, diff, -7)
	}
}

func TestGenerateMelodyBars(t *testing.T) {
	p := melodyParams()
	p.Notes = 0
	p.Bars = 2
	p.RhythmPattern = "syncopated"

	tr, err := GenerateMelody(p)
	require.NoError(t, err)
	assert.Equal(t, uint32(2*timing.BarTicks), track.Span(tr.Notes), "last note is cut at the bar line")
}

func TestGenerateMelodySwing(t *testing.T) {
	p := melodyParams()
	p.RhythmPattern = "eighths"
	plain, err := GenerateMelody(p)
	require.NoError(t, err)

	p.UseSwing = true
	swung, err := GenerateMelody(p)
	require.NoError(t, err)

	assert.Equal(t, track.TotalDuration(plain.Notes), track.TotalDuration(swung.Notes))
	assert.Equal(t, uint32(320), swung.Notes[1].Start)
	for i := range plain.Notes {
		assert.Equal(t, plain.Notes[i].Pitch, swung.Notes[i].Pitch)
	}
}

func TestGenerateMelodyEmpty(t *testing.T) {
	p := melodyParams()
	p.Notes = 0
	p.Bars = 0
	_, err := GenerateMelody(p)
	assert.ErrorIs(t, err, ErrEmptyRequest)
	assert.True(t, IsValidation(err))
}

func TestGenerateMelodyErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
		target error
	}{
		{"unknown scale", func(p *Params) { p.Mode = "not_a_scale" }, theory.ErrUnknownScale},
		{"unknown note", func(p *Params) { p.RootNote = "H" }, theory.ErrUnknownNote},
		{"pitch class range", func(p *Params) { p.RootNote = "12" }, theory.ErrUnknownNote},
		{"tempo", func(p *Params) { p.BPM = 0 }, timing.ErrInvalidTempo},
		{"rhythm", func(p *Params) { p.RhythmPattern = "polka" }, ErrInvalidParams},
		{"swing type", func(p *Params) { p.UseSwing = true; p.SwingType = "wobbly" }, ErrInvalidParams},
		{"channel", func(p *Params) { p.Channel = 16 }, ErrInvalidParams},
		{"negative", func(p *Params) { p.Notes = -1 }, ErrInvalidParams},
		{"humanization", func(p *Params) { p.HumanizationAmount = 2 }, ErrInvalidParams},
		{"too many notes", func(p *Params) { p.Notes = MaxNotes + 1 }, ErrInvalidParams},
		{"too many bars", func(p *Params) { p.Notes = 0; p.Bars = MaxBars + 1 }, ErrInvalidParams},
		{"bars past the tick range", func(p *Params) { p.Notes = 0; p.Bars = 2236963 }, ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := melodyParams()
			tt.modify(&p)
			_, err := GenerateMelody(p)
			assert.ErrorIs(t, err, tt.target)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestGenerateMelodyPitchClass(t *testing.T) {
	p := melodyParams()
	p.RootNote = "9"
	p.Mode = "minor"
	tr, err := GenerateMelody(p)
	require.NoError(t, err)
	assert.Equal(t, uint8(69), tr.Notes[0].Pitch)
	assert.Equal(t, "A minor melody", tr.Name)
}

func chordParams() Params {
	return Params{
		Kind:            KindChords,
		RootNote:        "C",
		Mode:            "major",
		ProgressionType: "I-IV-V-I",
		BPM:             90,
		Seed:            seed(3),
	}
}

func groupByStart(notes []track.NoteEvent) ([]uint32, map[uint32][]uint8) {
	var order []uint32
	groups := make(map[uint32][]uint8)
	for _, n := range notes {
		if _, ok := groups[n.Start]; !ok {
			order = append(order, n.Start)
		}
		groups[n.Start] = append(groups[n.Start], n.Pitch)
	}
	return order, groups
}

func TestGenerateChordProgression(t *testing.T) {
	tr, err := GenerateChordProgression(chordParams())
	require.NoError(t, err)
	require.Len(t, tr.Notes, 12)

	order, groups := groupByStart(tr.Notes)
	require.Len(t, order, 4)
	assert.Equal(t, []uint8{48, 52, 55}, groups[order[0]]) // I
	assert.Equal(t, []uint8{53, 57, 60}, groups[order[1]]) // IV
	assert.Equal(t, []uint8{55, 59, 62}, groups[order[2]]) // V
	assert.Equal(t, []uint8{48, 52, 55}, groups[order[3]]) // I

	for _, n := range tr.Notes {
		assert.Equal(t, uint32(timing.BarTicks), n.Duration)
	}
}

func TestGenerateChordProgressionRepeatsToFill(t *testing.T) {
	p := chordParams()
	p.Bars = 6
	tr, err := GenerateChordProgression(p)
	require.NoError(t, err)

	order, groups := groupByStart(tr.Notes)
	require.Len(t, order, 6)
	assert.Equal(t, groups[order[0]], groups[order[4]])
	assert.Equal(t, groups[order[1]], groups[order[5]])

	p.Bars = 3
	tr, err = GenerateChordProgression(p)
	require.NoError(t, err)
	order, _ = groupByStart(tr.Notes)
	assert.Len(t, order, 3, "progression is truncated")
}

func TestGenerateChordProgressionExtensionsAndInversions(t *testing.T) {
	p := chordParams()
	p.Extension = "seventh"
	p.Inversion = 1
	tr, err := GenerateChordProgression(p)
	require.NoError(t, err)

	order, groups := groupByStart(tr.Notes)
	require.Len(t, order, 4)
	// Cmaj7 first inversion: E G B C
	assert.Equal(t, []uint8{52, 55, 59, 60}, groups[order[0]])
}

func TestGenerateChordProgressionStrum(t *testing.T) {
	p := chordParams()
	p.Strum = "down_slow"
	tr, err := GenerateChordProgression(p)
	require.NoError(t, err)
	require.Len(t, tr.Notes, 12)

	assert.Equal(t, uint32(0), tr.Notes[0].Start)
	assert.Equal(t, uint32(60), tr.Notes[1].Start)
	assert.Equal(t, uint32(120), tr.Notes[2].Start)
	for _, n := range tr.Notes[:3] {
		assert.Equal(t, uint32(timing.BarTicks), n.End(), "strummed tones release together")
	}
}

func TestGenerateChordProgressionErrors(t *testing.T) {
	p := chordParams()
	p.ProgressionType = "I-IX"
	_, err := GenerateChordProgression(p)
	assert.ErrorIs(t, err, theory.ErrUnknownProgression)

	p = chordParams()
	p.ProgressionType = ""
	_, err = GenerateChordProgression(p)
	assert.ErrorIs(t, err, theory.ErrUnknownProgression)

	p = chordParams()
	p.Mode = "not_a_scale"
	_, err = GenerateChordProgression(p)
	assert.ErrorIs(t, err, theory.ErrUnknownScale)

	p = chordParams()
	p.Extension = "fifteenth"
	_, err = GenerateChordProgression(p)
	assert.ErrorIs(t, err, ErrInvalidParams)

	p = chordParams()
	p.Strum = "sideways"
	_, err = GenerateChordProgression(p)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestGenerateChordProgressionHumanized(t *testing.T) {
	p := chordParams()
	p.UseHumanization = true
	p.Bars = 8
	a, err := GenerateChordProgression(p)
	require.NoError(t, err)
	b, err := GenerateChordProgression(p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, track.IsSorted(a.Notes))
}

func TestGenerateDispatch(t *testing.T) {
	tr, err := Generate(chordParams())
	require.NoError(t, err)
	assert.Len(t, tr.Notes, 12)

	_, err = Generate(Params{Kind: "drums"})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Chord")
	require.NoError(t, err)
	assert.Equal(t, KindChords, k)

	k, err = ParseKind("melody")
	require.NoError(t, err)
	assert.Equal(t, KindMelody, k)

	_, err = ParseKind("drums")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestWithDefaults(t *testing.T) {
	p := Params{}.WithDefaults()
	assert.Equal(t, KindMelody, p.Kind)
	assert.Equal(t, "C", p.RootNote)
	assert.Equal(t, "major", p.Mode)
	assert.Equal(t, 120, p.BPM)
	assert.Equal(t, DefaultMelodyBars, p.Bars)
	assert.Nil(t, p.Seed)

	c := Params{Kind: KindChords}.WithDefaults()
	assert.Equal(t, 0, c.Bars)
}

func TestWalkDegrees(t *testing.T) {
	rng := timing.NewRand(9)
	degrees := walkDegrees(rng, 7, 200)
	assert.Equal(t, 0, degrees[0])
	last := degrees[len(degrees)-1]
	assert.True(t, last == 0 || last == 7)
	for _, d := range degrees {
		assert.GreaterOrEqual(t, d, -3)
		assert.LessOrEqual(t, d, 10)
	}

	assert.Equal(t, []int{0}, walkDegrees(rng, 7, 1))
}

func TestRhythmPatterns(t *testing.T) {
	for _, name := range RhythmPatterns() {
		steps, err := RhythmPattern(name)
		require.NoError(t, err, name)
		for _, s := range steps {
			_, err := timing.TicksForDuration(s.Unit)
			assert.NoError(t, err, name)
		}
	}
}

func TestLengthLimitsFitTheTrack(t *testing.T) {
	assert.LessOrEqual(t, uint64(MaxBars)*timing.BarTicks, uint64(encoder.MaxVLQ))

	p := chordParams()
	p.Bars = MaxBars
	tr, err := GenerateChordProgression(p)
	require.NoError(t, err)
	assert.Equal(t, uint32(MaxBars*timing.BarTicks), track.Span(tr.Notes))
	_, err = encoder.Encode(tr)
	require.NoError(t, err)

	m := melodyParams()
	m.Notes = MaxNotes
	m.RhythmPattern = "syncopated"
	tr, err = GenerateMelody(m)
	require.NoError(t, err)
	assert.Len(t, tr.Notes, MaxNotes)
	_, err = encoder.Encode(tr)
	require.NoError(t, err)
}

func TestChordLengthLimits(t *testing.T) {
	for _, bars := range []int{MaxBars + 1, 2236963} {
		p := chordParams()
		p.Bars = bars
		_, err := GenerateChordProgression(p)
		assert.ErrorIs(t, err, ErrInvalidParams)
		assert.True(t, IsValidation(err))
		assert.False(t, encoder.IsInternal(err))
	}
}

func endsByPitch(notes []track.NoteEvent, start uint32) map[uint8]uint32 {
	ends := make(map[uint8]uint32)
	for _, n := range notes {
		if n.Start >= start && n.Start < start+timing.BarTicks {
			ends[n.Pitch] = n.End()
		}
	}
	return ends
}

func TestGenerateChordProgressionStrumOut(t *testing.T) {
	p := chordParams()
	p.StrumOut = "down_slow"
	tr, err := GenerateChordProgression(p)
	require.NoError(t, err)
	require.Len(t, tr.Notes, 12)

	assert.Equal(t, map[uint8]uint32{48: 1800, 52: 1860, 55: 1920}, endsByPitch(tr.Notes, 0))
	for _, n := range tr.Notes[:3] {
		assert.Equal(t, uint32(0), n.Start, "attacks stay together")
	}
}

func TestGenerateChordProgressionAlternatingStrum(t *testing.T) {
	p := chordParams()
	p.Strum = "alt_slow"
	p.StrumOut = "alt_slow"
	tr, err := GenerateChordProgression(p)
	require.NoError(t, err)
	require.Len(t, tr.Notes, 12)

	// down on the attack
	assert.Equal(t, uint8(48), tr.Notes[0].Pitch)
	assert.Equal(t, uint32(0), tr.Notes[0].Start)
	assert.Equal(t, uint32(60), tr.Notes[1].Start)
	assert.Equal(t, uint32(120), tr.Notes[2].Start)
	// up on the release
	assert.Equal(t, map[uint8]uint32{48: 1920, 52: 1860, 55: 1800}, endsByPitch(tr.Notes, 0))
}

func TestGenerateChordProgressionTimingModes(t *testing.T) {
	p := chordParams()
	p.TimingMode = TimingRegular
	tr, err := GenerateChordProgression(p)
	require.NoError(t, err)

	order, _ := groupByStart(tr.Notes)
	assert.Equal(t, []uint32{0, 1920, 3840, 5760}, order)
	for _, n := range tr.Notes {
		assert.Equal(t, uint32(timing.BarTicks-timing.Resolution), n.Duration)
	}

	p.TimingMode = TimingTight
	tr, err = GenerateChordProgression(p)
	require.NoError(t, err)
	assert.Equal(t, uint32(timing.BarTicks), tr.Notes[0].Duration)

	p.TimingMode = "loose"
	_, err = GenerateChordProgression(p)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestGenerateChordProgressionRandomInversion(t *testing.T) {
	p := chordParams()
	p.Bars = 16
	root, err := GenerateChordProgression(p)
	require.NoError(t, err)

	p.Inversion = RandomInversion
	a, err := GenerateChordProgression(p)
	require.NoError(t, err)
	b, err := GenerateChordProgression(p)
	require.NoError(t, err)
	assert.Equal(t, a, b, "inversions come from the seed")

	order, rootGroups := groupByStart(root.Notes)
	_, groups := groupByStart(a.Notes)
	require.Len(t, order, 16)
	classes := func(pitches []uint8) map[int]bool {
		m := make(map[int]bool)
		for _, pitch := range pitches {
			m[int(pitch)%12] = true
		}
		return m
	}
	inverted := 0
	for _, start := range order {
		assert.Equal(t, classes(rootGroups[start]), classes(groups[start]))
		if groups[start][0] != rootGroups[start][0] {
			inverted++
		}
	}
	assert.Positive(t, inverted)

	p.Inversion = RandomInversion + 1
	_, err = GenerateChordProgression(p)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestGenerateChordProgressionRandom(t *testing.T) {
	p := chordParams()
	p.ProgressionType = RandomProgression
	p.ProgressionLength = 6
	a, err := GenerateChordProgression(p)
	require.NoError(t, err)
	b, err := GenerateChordProgression(p)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	order, groups := groupByStart(a.Notes)
	require.Len(t, order, 6, "played once without bars")
	inScale := map[int]bool{0: true, 2: true, 4: true, 5: true, 7: true, 9: true, 11: true}
	for _, start := range order {
		for _, pitch := range groups[start] {
			assert.True(t, inScale[int(pitch)%12])
		}
	}

	p.ProgressionLength = 0
	tr, err := GenerateChordProgression(p)
	require.NoError(t, err)
	order, _ = groupByStart(tr.Notes)
	assert.Len(t, order, DefaultProgressionLength)

	for _, n := range []int{1, MaxProgressionLength + 1} {
		p.ProgressionLength = n
		_, err = GenerateChordProgression(p)
		assert.ErrorIs(t, err, ErrInvalidParams)
	}
}
