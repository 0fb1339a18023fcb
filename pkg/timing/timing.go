// Package timing converts musical durations and tempos into ticks and
// applies the swing, humanization and strum transforms to note lists.
package timing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Resolution is the number of ticks per quarter note written to the header
const Resolution = 480

// BeatsPerBar is fixed at 4/4
const BeatsPerBar = 4

// BarTicks is the length of one 4/4 bar
const BarTicks = Resolution * BeatsPerBar

// Tempo limits. The lower bound keeps microseconds per quarter within the
// 24 bits of the tempo meta-event.
const (
	MinBPM = 4
	MaxBPM = 1000
)

// ErrUnsupportedDuration is returned for unknown duration units
var ErrUnsupportedDuration = errors.New("unsupported duration")

// ErrInvalidTempo is returned for tempos outside MinBPM-MaxBPM
var ErrInvalidTempo = errors.New("invalid tempo")

// Duration is a musical note length
type Duration string

const (
	Whole         Duration = "whole"
	Half          Duration = "half"
	Quarter       Duration = "quarter"
	Eighth        Duration = "eighth"
	Sixteenth     Duration = "sixteenth"
	DottedHalf    Duration = "dotted_half"
	DottedQuarter Duration = "dotted_quarter"
	DottedEighth  Duration = "dotted_eighth"
	TripletEighth Duration = "triplet_eighth"
)

var durationTicks = map[Duration]uint32{
	Whole:         Resolution * 4,
	Half:          Resolution * 2,
	Quarter:       Resolution,
	Eighth:        Resolution / 2,
	Sixteenth:     Resolution / 4,
	DottedHalf:    Resolution * 3,
	DottedQuarter: Resolution * 3 / 2,
	DottedEighth:  Resolution * 3 / 4,
	TripletEighth: Resolution / 3,
}

// TicksForDuration returns the tick length of a duration unit
func TicksForDuration(unit Duration) (uint32, error) {
	ticks, ok := durationTicks[Duration(strings.ToLower(string(unit)))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDuration, unit)
	}
	return ticks, nil
}

// Durations returns the supported duration names, longest first
func Durations() []string {
	names := make([]string, 0, len(durationTicks))
	for d := range durationTicks {
		names = append(names, string(d))
	}
	sort.Slice(names, func(i, j int) bool {
		return durationTicks[Duration(names[i])] > durationTicks[Duration(names[j])]
	})
	return names
}

// MicrosecondsPerQuarter converts a tempo to the value stored in the tempo
// meta-event (60,000,000 / BPM, truncated).
func MicrosecondsPerQuarter(bpm int) (uint32, error) {
	if bpm < MinBPM || bpm > MaxBPM {
		return 0, fmt.Errorf("%w: %d bpm (allowed %d-%d)", ErrInvalidTempo, bpm, MinBPM, MaxBPM)
	}
	return uint32(60000000 / bpm), nil
}
