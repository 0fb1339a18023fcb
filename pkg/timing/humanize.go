package timing

import (
	"math/rand/v2"

	"github.com/james-see/melodygen/pkg/track"
)

// Humanization bounds at amount 1.0. These are feel choices rather than
// format constraints: velocity moves by up to 10% of its value and the start
// tick by up to 5% of the shortest note in the list.
const (
	VelocityJitter = 0.10
	TimingJitter   = 0.05
)

// NewRand returns the deterministic generator used for a seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ApplyHumanization perturbs velocity and start tick of every note using a
// generator derived from seed, so the same seed and input always give the
// same output. amount scales both bounds and is clamped to (0, 1]; zero or
// less selects 1.
//
// Velocities stay within 1-127. A start tick never moves before the start of
// the note processed before it and never below zero. Notes that would now
// overlap a later note of the same pitch and channel are cut short at that
// note's start. The input is not modified. The result is sorted.
func ApplyHumanization(notes []track.NoteEvent, seed uint64, amount float64) []track.NoteEvent {
	out := track.Clone(notes)
	if len(out) == 0 {
		return out
	}
	if amount <= 0 || amount > 1 {
		amount = 1
	}
	track.Sort(out)

	smallest := out[0].Duration
	for _, n := range out[1:] {
		if n.Duration < smallest {
			smallest = n.Duration
		}
	}
	maxShift := int(float64(smallest) * TimingJitter * amount)

	rng := NewRand(seed)
	var prevStart int
	for i := range out {
		n := &out[i]

		maxVel := int(float64(n.Velocity) * VelocityJitter * amount)
		vel := int(n.Velocity) + jitter(rng, maxVel)
		n.Velocity = uint8(clamp(vel, 1, 127))

		start := int(n.Start) + jitter(rng, maxShift)
		if start < prevStart {
			start = prevStart
		}
		if start < 0 {
			start = 0
		}
		n.Start = uint32(start)
		prevStart = start
	}

	trimOverlaps(out)
	track.Sort(out)
	return out
}

// jitter draws a value in [-limit, limit]. The generator is always advanced
// once so the sequence does not depend on the limits.
func jitter(rng *rand.Rand, limit int) int {
	v := rng.Uint64()
	if limit <= 0 {
		return 0
	}
	return int(v%uint64(2*limit+1)) - limit
}

func trimOverlaps(notes []track.NoteEvent) {
	type voice struct {
		pitch   uint8
		channel uint8
	}
	last := make(map[voice]int)
	for i := range notes {
		key := voice{notes[i].Pitch, notes[i].Channel}
		if j, ok := last[key]; ok {
			prev := &notes[j]
			if prev.End() > notes[i].Start {
				d := notes[i].Start - prev.Start
				if d == 0 {
					d = 1
				}
				prev.Duration = d
			}
		}
		last[key] = i
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
