package generator

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/james-see/melodygen/pkg/theory"
	"github.com/james-see/melodygen/pkg/timing"
	"github.com/james-see/melodygen/pkg/track"
)

// Arpeggio patterns
const (
	ArpeggioUp     = "up"
	ArpeggioDown   = "down"
	ArpeggioRandom = "random"
)

// randomArpeggioNotes is the length of a random arpeggio with no length set
const randomArpeggioNotes = 16

// Arpeggio velocities are drawn from this range
const (
	arpeggioMinVelocity = 64
	arpeggioMaxVelocity = 100
)

// ArpeggioPatterns returns the arpeggio pattern names in sorted order
func ArpeggioPatterns() []string {
	names := []string{ArpeggioUp, ArpeggioDown, ArpeggioRandom}
	sort.Strings(names)
	return names
}

// GenerateArpeggio runs eighth notes through the scale. "up" climbs from the
// tonic and falls back, "down" does the reverse and "random" draws degrees
// from the seeded stream. The cycle repeats to fill Notes notes or Bars
// bars; with neither it is played once.
func GenerateArpeggio(p Params) (track.Track, error) {
	scale, err := prepare(p)
	if err != nil {
		return track.Track{}, err
	}
	pattern := strings.ToLower(strings.TrimSpace(p.ArpeggioPattern))
	if pattern == "" {
		pattern = ArpeggioUp
	}

	step, err := timing.TicksForDuration(timing.Eighth)
	if err != nil {
		return track.Track{}, err
	}
	count := p.Notes
	if count == 0 && p.Bars > 0 {
		count = p.Bars * int(timing.BarTicks/step)
	}

	seed := p.ResolveSeed()
	rng := timing.NewRand(seed ^ arpeggioSeedSalt)
	degrees, err := arpeggioDegrees(pattern, scale.Len(), count, rng)
	if err != nil {
		return track.Track{}, err
	}

	octave := p.Octave
	if octave == 0 {
		octave = DefaultMelodyOctave
	}
	notes := make([]track.NoteEvent, len(degrees))
	for i, d := range degrees {
		notes[i] = track.NoteEvent{
			Pitch:    scale.Pitch(d, octave),
			Velocity: uint8(arpeggioMinVelocity + rng.IntN(arpeggioMaxVelocity-arpeggioMinVelocity+1)),
			Start:    uint32(i) * step,
			Duration: step,
			Channel:  p.Channel,
		}
	}

	notes, err = express(p, notes, seed)
	if err != nil {
		return track.Track{}, err
	}
	return track.Track{
		Name:  fmt.Sprintf("%s %s arpeggio %s", theory.NoteName(scale.Root), scale.Name, pattern),
		BPM:   p.BPM,
		Notes: notes,
	}, nil
}

// arpeggioDegrees returns count degrees of the pattern, or one cycle when
// count is zero.
func arpeggioDegrees(pattern string, scaleLen, count int, rng *rand.Rand) ([]int, error) {
	var cycle []int
	switch pattern {
	case ArpeggioUp:
		for d := 0; d < scaleLen; d++ {
			cycle = append(cycle, d)
		}
		for d := scaleLen - 2; d > 0; d-- {
			cycle = append(cycle, d)
		}
	case ArpeggioDown:
		for d := scaleLen - 1; d >= 0; d-- {
			cycle = append(cycle, d)
		}
		for d := 1; d < scaleLen-1; d++ {
			cycle = append(cycle, d)
		}
	case ArpeggioRandom:
		if count == 0 {
			count = randomArpeggioNotes
		}
		degrees := make([]int, count)
		for i := range degrees {
			degrees[i] = rng.IntN(scaleLen)
		}
		return degrees, nil
	default:
		return nil, fmt.Errorf("%w: unknown arpeggio pattern %q", ErrInvalidParams, pattern)
	}

	if count == 0 {
		return cycle, nil
	}
	degrees := make([]int, count)
	for i := range degrees {
		degrees[i] = cycle[i%len(cycle)]
	}
	return degrees, nil
}
