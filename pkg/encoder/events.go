package encoder

import (
	"fmt"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"

	"github.com/james-see/melodygen/pkg/track"
)

// EventKind orders events that share a tick: releases go out first
type EventKind int

const (
	NoteOff EventKind = iota
	NoteOn
)

func (k EventKind) String() string {
	if k == NoteOn {
		return "note-on"
	}
	return "note-off"
}

// Event is a channel event at an absolute tick
type Event struct {
	Tick     uint32
	Kind     EventKind
	Channel  uint8
	Pitch    uint8
	Velocity uint8
}

// Bytes returns the channel message. Note-offs are written as status 0x8n
// with velocity zero.
func (ev Event) Bytes() []byte {
	if ev.Kind == NoteOn {
		return midi.NoteOn(ev.Channel, ev.Pitch, ev.Velocity)
	}
	return midi.NoteOff(ev.Channel, ev.Pitch)
}

// Expand turns notes into note-on/note-off pairs sorted for writing: by
// tick, then note-offs before note-ons, then channel and pitch.
func Expand(notes []track.NoteEvent) ([]Event, error) {
	events := make([]Event, 0, 2*len(notes))
	for i, n := range notes {
		if err := checkNote(n); err != nil {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}
		events = append(events,
			Event{Tick: n.Start, Kind: NoteOn, Channel: n.Channel, Pitch: n.Pitch, Velocity: n.Velocity},
			Event{Tick: n.Start + n.Duration, Kind: NoteOff, Channel: n.Channel, Pitch: n.Pitch},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Tick != b.Tick {
			return a.Tick < b.Tick
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		return a.Pitch < b.Pitch
	})
	return events, nil
}

func checkNote(n track.NoteEvent) error {
	switch {
	case n.Pitch > 127:
		return fmt.Errorf("%w: pitch %d", ErrInvalidEvent, n.Pitch)
	case n.Velocity == 0 || n.Velocity > 127:
		return fmt.Errorf("%w: velocity %d", ErrInvalidEvent, n.Velocity)
	case n.Channel > 15:
		return fmt.Errorf("%w: channel %d", ErrInvalidEvent, n.Channel)
	case n.Duration == 0:
		return fmt.Errorf("%w: zero duration", ErrInvalidEvent)
	case uint64(n.Start)+uint64(n.Duration) > math.MaxUint32:
		return fmt.Errorf("%w: note ends past tick %d", ErrEncodingOverflow, uint32(math.MaxUint32))
	}
	return nil
}
