package timing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/james-see/melodygen/pkg/track"
)

// Swing delay fractions, expressed as the share of an eighth note by which
// the off-beat eighth is pushed back. Heavy is the 2:1 triplet feel.
var swingAmounts = map[string]float64{
	"light":   0.10,
	"medium":  0.20,
	"heavy":   1.0 / 3.0,
	"extreme": 0.50,
}

// DefaultSwing is the delay fraction used when no amount is named
const DefaultSwing = 1.0 / 3.0

// SwingFraction resolves a named swing amount. Empty selects DefaultSwing.
func SwingFraction(name string) (float64, error) {
	if name == "" {
		return DefaultSwing, nil
	}
	f, ok := swingAmounts[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown swing amount %q", name)
	}
	return f, nil
}

// SwingAmounts returns the named swing amounts from lightest to heaviest
func SwingAmounts() []string {
	names := make([]string, 0, len(swingAmounts))
	for name := range swingAmounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return swingAmounts[names[i]] < swingAmounts[names[j]]
	})
	return names
}

// ApplySwing delays every note that starts on the off-beat eighth of a beat
// by fraction of an eighth note, keeping its release tick fixed, and extends
// the notes that end on that off-beat by the same amount. An off-beat is only
// swung when each note starting there is paired with a note from the same
// bar ending there, so the summed duration of every bar is unchanged.
//
// The input is not modified. The result is sorted.
func ApplySwing(notes []track.NoteEvent, fraction float64) []track.NoteEvent {
	out := track.Clone(notes)
	if fraction <= 0 || len(out) == 0 {
		return out
	}
	eighth := durationTicks[Eighth]
	delay := uint32(math.Round(float64(eighth) * fraction))
	if delay == 0 {
		return out
	}

	starts := make(map[uint32][]int)
	ends := make(map[uint32][]int)
	for i, n := range notes {
		if n.Start%Resolution == eighth {
			starts[n.Start] = append(starts[n.Start], i)
		}
		ends[n.End()] = append(ends[n.End()], i)
	}

	offbeats := make([]uint32, 0, len(starts))
	for tick := range starts {
		offbeats = append(offbeats, tick)
	}
	sort.Slice(offbeats, func(i, j int) bool { return offbeats[i] < offbeats[j] })

	for _, tick := range offbeats {
		bar := tick / BarTicks
		var before []int
		for _, i := range ends[tick] {
			if notes[i].Start < tick && notes[i].Start/BarTicks == bar {
				before = append(before, i)
			}
		}
		delayed := starts[tick]
		if len(before) != len(delayed) {
			continue
		}
		swingable := true
		for _, i := range delayed {
			if notes[i].Duration <= delay {
				swingable = false
				break
			}
		}
		if !swingable {
			continue
		}
		for _, i := range delayed {
			out[i].Start += delay
			out[i].Duration -= delay
		}
		for _, i := range before {
			out[i].Duration += delay
		}
	}

	track.Sort(out)
	return out
}
