package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/james-see/melodygen/pkg/timing"
)

// RhythmStep is one note length in a rhythm pattern with its accent
type RhythmStep struct {
	Unit   timing.Duration
	Accent float64 // Velocity multiplier
}

// DefaultRhythm is used when no rhythm pattern is named
const DefaultRhythm = "basic"

var rhythmPatterns = map[string][]RhythmStep{
	"basic": {
		{timing.Quarter, 1.0}, {timing.Quarter, 0.85}, {timing.Quarter, 0.95}, {timing.Quarter, 0.85},
	},
	"upbeat": {
		{timing.Eighth, 0.9}, {timing.Eighth, 0.75}, {timing.Eighth, 0.9}, {timing.Eighth, 0.75},
		{timing.Quarter, 1.0}, {timing.Quarter, 0.9},
	},
	"waltz": {
		{timing.Quarter, 1.0}, {timing.Eighth, 0.75}, {timing.Eighth, 0.75},
	},
	"syncopated": {
		{timing.DottedQuarter, 1.0}, {timing.Eighth, 0.8}, {timing.Quarter, 0.9},
	},
	"eighths": {
		{timing.Eighth, 1.0}, {timing.Eighth, 0.8},
	},
	"sixteenths": {
		{timing.Sixteenth, 1.0}, {timing.Sixteenth, 0.7}, {timing.Sixteenth, 0.85}, {timing.Sixteenth, 0.7},
	},
	"experimental": {
		{timing.Sixteenth, 1.0}, {timing.Sixteenth, 0.7}, {timing.Eighth, 0.9}, {timing.Sixteenth, 1.0},
		{timing.DottedEighth, 0.8},
	},
}

// RhythmPattern returns a named rhythm pattern. Empty selects DefaultRhythm.
func RhythmPattern(name string) ([]RhythmStep, error) {
	if name == "" {
		name = DefaultRhythm
	}
	steps, ok := rhythmPatterns[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown rhythm pattern %q", ErrInvalidParams, name)
	}
	return steps, nil
}

// RhythmPatterns returns the rhythm pattern names in sorted order
func RhythmPatterns() []string {
	names := make([]string, 0, len(rhythmPatterns))
	for name := range rhythmPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// slot is a placed rhythm step
type slot struct {
	start    uint32
	duration uint32
	accent   float64
}

// layoutRhythm places pattern steps back to back. With notes > 0 exactly
// that many slots are produced; otherwise slots fill that many 4/4 bars and the
// last one is cut at the final bar line.
func layoutRhythm(pattern []RhythmStep, notes, bars int) ([]slot, error) {
	if len(pattern) == 0 {
		return nil, nil
	}
	var (
		slots []slot
		tick  uint32
		limit = uint32(bars) * timing.BarTicks
	)
	for i := 0; ; i++ {
		if notes > 0 && len(slots) == notes {
			break
		}
		if notes == 0 && tick >= limit {
			break
		}
		step := pattern[i%len(pattern)]
		ticks, err := timing.TicksForDuration(step.Unit)
		if err != nil {
			return nil, err
		}
		if notes == 0 && tick+ticks > limit {
			ticks = limit - tick
		}
		slots = append(slots, slot{start: tick, duration: ticks, accent: step.Accent})
		tick += ticks
	}
	return slots, nil
}
