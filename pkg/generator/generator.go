package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/james-see/melodygen/pkg/theory"
	"github.com/james-see/melodygen/pkg/timing"
	"github.com/james-see/melodygen/pkg/track"
)

// Base velocities before accents and humanization
const (
	melodyVelocity      = 100
	chordVelocity       = 88
	chordAccentVelocity = 100
)

// Salts separate the melody walk, chord and arpeggio streams from the
// humanization stream derived from the same seed.
const (
	melodySeedSalt   = 0x5bd1e9955bd1e995
	chordSeedSalt    = 0x2545f4914f6cdd1d
	arpeggioSeedSalt = 0xc2b2ae3d27d4eb4f
)

// DefaultProgressionLength is the number of chords in a random progression
const DefaultProgressionLength = 4

// RandomProgression draws one chord per degree from the seeded stream
const RandomProgression = "random"

// stepWeights is the melodic motion policy: stepwise motion dominates,
// repeats and thirds are less likely, fourths and fifths are rare.
var stepWeights = []struct {
	delta  int
	weight int
}{
	{-4, 1}, {-3, 1}, {-2, 3}, {-1, 6}, {0, 2}, {1, 6}, {2, 3}, {3, 1}, {4, 1},
}

// tonicBonus is added to the weight of any candidate degree on the tonic
const tonicBonus = 2

// ResolveSeed returns the request seed, or a fresh random one when unset
func (p Params) ResolveSeed() uint64 {
	if p.Seed != nil {
		return *p.Seed
	}
	return rand.Uint64()
}

// Generate dispatches on p.Kind
func Generate(p Params) (track.Track, error) {
	switch p.Kind {
	case KindMelody:
		return GenerateMelody(p)
	case KindChords:
		return GenerateChordProgression(p)
	case KindArpeggio:
		return GenerateArpeggio(p)
	default:
		return track.Track{}, fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
	}
}

// GenerateMelody walks a phrase over the requested scale. The phrase starts
// and ends on the tonic; the notes in between follow the weighted step
// policy. Rhythm comes from the named rhythm pattern, laid out for either
// Notes notes or Bars bars.
func GenerateMelody(p Params) (track.Track, error) {
	scale, err := prepare(p)
	if err != nil {
		return track.Track{}, err
	}
	pattern, err := RhythmPattern(p.RhythmPattern)
	if err != nil {
		return track.Track{}, err
	}
	slots, err := layoutRhythm(pattern, p.Notes, p.Bars)
	if err != nil {
		return track.Track{}, err
	}
	if len(slots) == 0 {
		return track.Track{}, fmt.Errorf("%w: melody length resolves to zero notes", ErrEmptyRequest)
	}

	octave := p.Octave
	if octave == 0 {
		octave = DefaultMelodyOctave
	}
	seed := p.ResolveSeed()
	degrees := walkDegrees(timing.NewRand(seed^melodySeedSalt), scale.Len(), len(slots))

	notes := make([]track.NoteEvent, len(slots))
	for i, s := range slots {
		notes[i] = track.NoteEvent{
			Pitch:    scale.Pitch(degrees[i], octave),
			Velocity: accentVelocity(melodyVelocity, s.accent),
			Start:    s.start,
			Duration: s.duration,
			Channel:  p.Channel,
		}
	}

	notes, err = express(p, notes, seed)
	if err != nil {
		return track.Track{}, err
	}
	return track.Track{
		Name:  fmt.Sprintf("%s %s melody", theory.NoteName(scale.Root), scale.Name),
		BPM:   p.BPM,
		Notes: notes,
	}, nil
}

// GenerateChordProgression lays out one chord per bar, repeating or
// truncating the progression to fill Bars bars. Without Bars the
// progression is played once. Strum spreads the attacks and StrumOut the
// releases of each chord; TimingRegular rests on the last beat of a bar.
func GenerateChordProgression(p Params) (track.Track, error) {
	scale, err := prepare(p)
	if err != nil {
		return track.Track{}, err
	}
	ext, err := theory.ParseExtension(p.Extension)
	if err != nil {
		return track.Track{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	strumIn, err := timing.ParseStrum(p.Strum)
	if err != nil {
		return track.Track{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	strumOut, err := timing.ParseStrum(p.StrumOut)
	if err != nil {
		return track.Track{}, fmt.Errorf("%w: strum out: %v", ErrInvalidParams, err)
	}

	seed := p.ResolveSeed()
	rng := timing.NewRand(seed ^ chordSeedSalt)
	chords, err := progressionChords(p, scale, ext, rng)
	if err != nil {
		return track.Track{}, err
	}

	bars := p.Bars
	if bars == 0 {
		bars = len(chords)
	}
	octave := p.Octave
	if octave == 0 {
		octave = DefaultChordOctave
	}
	span := uint32(timing.BarTicks)
	if p.TimingMode == TimingRegular {
		span -= timing.Resolution
	}
	// attack and release strums share the chord when both are on
	strumSpan := span
	if strumIn.Active() && strumOut.Active() {
		strumSpan = span / 2
	}

	var notes []track.NoteEvent
	for bar := 0; bar < bars; bar++ {
		idx := bar % len(chords)
		chord := chords[idx]
		chord.Duration = span

		velocity := uint8(chordVelocity)
		if idx == 0 {
			velocity = chordAccentVelocity
		}
		inversion := p.Inversion
		if inversion == RandomInversion {
			inversion = rng.IntN(min(3, len(chord.Quality)-1) + 1)
		}
		pitches := chord.Voice(octave, inversion)
		attacks := strumIn.Offsets(len(pitches), strumSpan)
		releases := strumOut.ReleaseOffsets(len(pitches), strumSpan)
		barStart := uint32(bar) * timing.BarTicks
		for j, pitch := range pitches {
			notes = append(notes, track.NoteEvent{
				Pitch:    pitch,
				Velocity: velocity,
				Start:    barStart + attacks[j],
				Duration: chord.Duration - attacks[j] - releases[j],
				Channel:  p.Channel,
			})
		}
	}
	if len(notes) == 0 {
		return track.Track{}, fmt.Errorf("%w: progression resolves to zero chords", ErrEmptyRequest)
	}

	notes, err = express(p, notes, seed)
	if err != nil {
		return track.Track{}, err
	}
	return track.Track{
		Name:  fmt.Sprintf("%s %s %s", theory.NoteName(scale.Root), scale.Name, p.ProgressionType),
		BPM:   p.BPM,
		Notes: notes,
	}, nil
}

// progressionChords resolves the progression, drawing a random one from rng
// when asked to.
func progressionChords(p Params, scale theory.Scale, ext theory.Extension, rng *rand.Rand) ([]theory.Chord, error) {
	if !strings.EqualFold(strings.TrimSpace(p.ProgressionType), RandomProgression) {
		return theory.Progression(p.ProgressionType, scale, ext)
	}
	length := p.ProgressionLength
	if length == 0 {
		length = DefaultProgressionLength
	}
	degrees := make([]int, length)
	for i := range degrees {
		degrees[i] = rng.IntN(scale.Len())
	}
	return theory.Chords(degrees, scale, ext)
}

// prepare validates the shared parameters and resolves the scale
func prepare(p Params) (theory.Scale, error) {
	if err := p.validate(); err != nil {
		return theory.Scale{}, err
	}
	if _, err := timing.MicrosecondsPerQuarter(p.BPM); err != nil {
		return theory.Scale{}, err
	}
	root, err := p.RootPitchClass()
	if err != nil {
		return theory.Scale{}, err
	}
	return theory.NewScale(root, p.mode())
}

// express applies the optional swing and humanization transforms
func express(p Params, notes []track.NoteEvent, seed uint64) ([]track.NoteEvent, error) {
	if p.UseSwing {
		fraction, err := timing.SwingFraction(p.SwingType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		notes = timing.ApplySwing(notes, fraction)
	}
	if p.UseHumanization {
		notes = timing.ApplyHumanization(notes, seed, p.HumanizationAmount)
	}
	track.Sort(notes)
	return notes, nil
}

// walkDegrees picks count zero-based scale degrees. The first and last are
// tonics; the rest move by weighted steps within a range of a little over
// one octave around the tonic.
func walkDegrees(rng *rand.Rand, scaleLen, count int) []int {
	degrees := make([]int, count)
	if count < 2 {
		return degrees
	}
	lo, hi := -3, scaleLen+3
	for i := 1; i < count; i++ {
		prev := degrees[i-1]
		if i == count-1 {
			degrees[i] = nearestTonic(prev, scaleLen)
			break
		}

		total := 0
		weights := make([]int, len(stepWeights))
		for k, sw := range stepWeights {
			d := prev + sw.delta
			if d < lo || d > hi {
				continue
			}
			w := sw.weight
			if d%scaleLen == 0 {
				w += tonicBonus
			}
			weights[k] = w
			total += w
		}

		pick := rng.IntN(total)
		for k, w := range weights {
			if pick < w {
				degrees[i] = prev + stepWeights[k].delta
				break
			}
			pick -= w
		}
	}
	return degrees
}

func nearestTonic(degree, scaleLen int) int {
	if degree > scaleLen/2 {
		return scaleLen
	}
	return 0
}

func accentVelocity(base int, accent float64) uint8 {
	v := int(float64(base)*accent + 0.5)
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
