// Package track holds the timed event model shared by the generator, the
// timing engine and the SMF encoder.
package track

import (
	"sort"
)

// NoteEvent is a single note with absolute timing in ticks
type NoteEvent struct {
	Pitch    uint8  // MIDI note number (0-127)
	Velocity uint8  // Velocity (1-127)
	Start    uint32 // Absolute start tick
	Duration uint32 // Length in ticks, always > 0
	Channel  uint8  // MIDI channel (0-15)
}

// End returns the tick at which the note is released
func (n NoteEvent) End() uint32 {
	return n.Start + n.Duration
}

// Track is an ordered note list plus the tempo carried by its tempo
// meta-event. The end-of-track meta-event is synthesized by the encoder.
type Track struct {
	Name  string
	BPM   int
	Notes []NoteEvent
}

// Sort orders notes by start tick, then channel, then pitch, giving a
// stable deterministic order for simultaneous notes.
func Sort(notes []NoteEvent) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		return a.Pitch < b.Pitch
	})
}

// IsSorted reports whether notes are ordered by start tick
func IsSorted(notes []NoteEvent) bool {
	for i := 1; i < len(notes); i++ {
		if notes[i].Start < notes[i-1].Start {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the note list
func Clone(notes []NoteEvent) []NoteEvent {
	out := make([]NoteEvent, len(notes))
	copy(out, notes)
	return out
}

// Span returns the tick at which the last note ends
func Span(notes []NoteEvent) uint32 {
	var end uint32
	for _, n := range notes {
		if n.End() > end {
			end = n.End()
		}
	}
	return end
}

// TotalDuration sums the durations of all notes
func TotalDuration(notes []NoteEvent) uint64 {
	var total uint64
	for _, n := range notes {
		total += uint64(n.Duration)
	}
	return total
}
