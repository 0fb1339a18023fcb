// Package encoder serializes note tracks as Standard MIDI Files.
//
// The Encoder is an explicit state machine:
//
//	Empty -> HeaderWritten -> TrackOpen -> TrackClosed -> Finalized
//
// Calling an operation outside its state returns ErrInvalidState and leaves
// the encoder untouched, so misuse can never produce a malformed file.
package encoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/james-see/melodygen/pkg/timing"
	"github.com/james-see/melodygen/pkg/track"
)

// Encoding errors. All of them indicate a defect upstream of the encoder
// rather than bad user input.
var (
	ErrOrderingViolation = errors.New("ordering violation")
	ErrEncodingOverflow  = errors.New("encoding overflow")
	ErrInvalidState      = errors.New("invalid encoder state")
	ErrInvalidEvent      = errors.New("invalid event")
)

// IsInternal reports whether err is one of the encoder's fatal errors
func IsInternal(err error) bool {
	return errors.Is(err, ErrOrderingViolation) ||
		errors.Is(err, ErrEncodingOverflow) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidEvent) ||
		errors.Is(err, ErrTruncatedVLQ)
}

// Chunk tags and meta-events
const (
	HeaderTag    = "MThd"
	TrackTag     = "MTrk"
	headerLen    = 6
	metaStatus   = 0xFF
	metaTempo    = 0x51
	metaEOT      = 0x2F
	formatSingle = 0
)

// State is the encoder's position in the file
type State int

const (
	StateEmpty State = iota
	StateHeaderWritten
	StateTrackOpen
	StateTrackClosed
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateHeaderWritten:
		return "header-written"
	case StateTrackOpen:
		return "track-open"
	case StateTrackClosed:
		return "track-closed"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Encoder writes one MThd chunk followed by a single MTrk chunk
type Encoder struct {
	state  State
	header []byte
	body   bytes.Buffer
	tick   uint32 // absolute tick of the last event written
	tempo  bool
	events int
}

// New returns an encoder in StateEmpty
func New() *Encoder {
	return &Encoder{}
}

// State returns the current state
func (e *Encoder) State() State {
	return e.state
}

func (e *Encoder) expect(op string, want State) error {
	if e.state != want {
		return fmt.Errorf("%w: %s in state %s, want %s", ErrInvalidState, op, e.state, want)
	}
	return nil
}

// WriteHeader emits the 14 byte MThd chunk. Format is 0 for a single track
// and 1 otherwise; division is ticks per quarter note.
func (e *Encoder) WriteHeader(trackCount, ticksPerQuarter uint16) error {
	if err := e.expect("WriteHeader", StateEmpty); err != nil {
		return err
	}
	if trackCount == 0 {
		return fmt.Errorf("%w: zero tracks", ErrInvalidEvent)
	}
	if ticksPerQuarter == 0 || ticksPerQuarter > 0x7FFF {
		return fmt.Errorf("%w: division %d", ErrInvalidEvent, ticksPerQuarter)
	}
	format := uint16(formatSingle)
	if trackCount > 1 {
		format = 1
	}
	h := make([]byte, 0, 8+headerLen)
	h = append(h, HeaderTag...)
	h = binary.BigEndian.AppendUint32(h, headerLen)
	h = binary.BigEndian.AppendUint16(h, format)
	h = binary.BigEndian.AppendUint16(h, trackCount)
	h = binary.BigEndian.AppendUint16(h, ticksPerQuarter)
	e.header = h
	e.state = StateHeaderWritten
	return nil
}

// OpenTrack starts the MTrk event stream
func (e *Encoder) OpenTrack() error {
	if err := e.expect("OpenTrack", StateHeaderWritten); err != nil {
		return err
	}
	e.body.Reset()
	e.tick = 0
	e.state = StateTrackOpen
	return nil
}

// WriteTempo writes the tempo meta-event at tick 0. It must come before any
// note event and may only be written once.
func (e *Encoder) WriteTempo(bpm int) error {
	if err := e.expect("WriteTempo", StateTrackOpen); err != nil {
		return err
	}
	if e.tempo || e.events > 0 {
		return fmt.Errorf("%w: tempo must be the first event and written once", ErrInvalidState)
	}
	us, err := timing.MicrosecondsPerQuarter(bpm)
	if err != nil {
		return err
	}
	e.body.WriteByte(0x00)
	e.body.Write([]byte{metaStatus, metaTempo, 0x03, byte(us >> 16), byte(us >> 8), byte(us)})
	e.tempo = true
	return nil
}

// WriteEvent appends a channel event. Its delta is the distance from the
// previous event; an event earlier than that one is an ordering violation.
func (e *Encoder) WriteEvent(ev Event) error {
	if err := e.expect("WriteEvent", StateTrackOpen); err != nil {
		return err
	}
	if !e.tempo {
		return fmt.Errorf("%w: note event before tempo", ErrInvalidState)
	}
	if ev.Tick < e.tick {
		return fmt.Errorf("%w: %s at tick %d after tick %d", ErrOrderingViolation, ev.Kind, ev.Tick, e.tick)
	}
	if ev.Pitch > 127 || ev.Velocity > 127 || ev.Channel > 15 {
		return fmt.Errorf("%w: %+v", ErrInvalidEvent, ev)
	}
	if err := e.writeDelta(ev.Tick); err != nil {
		return err
	}
	e.body.Write(ev.Bytes())
	e.events++
	return nil
}

// CloseTrack appends the end-of-track meta-event at tick, which must not be
// earlier than the last event.
func (e *Encoder) CloseTrack(tick uint32) error {
	if err := e.expect("CloseTrack", StateTrackOpen); err != nil {
		return err
	}
	if tick < e.tick {
		return fmt.Errorf("%w: end of track at tick %d after tick %d", ErrOrderingViolation, tick, e.tick)
	}
	if err := e.writeDelta(tick); err != nil {
		return err
	}
	e.body.Write([]byte{metaStatus, metaEOT, 0x00})
	e.state = StateTrackClosed
	return nil
}

// Finalize prefixes the event stream with its MTrk tag and length and
// returns the complete file.
func (e *Encoder) Finalize() ([]byte, error) {
	if err := e.expect("Finalize", StateTrackClosed); err != nil {
		return nil, err
	}
	n := uint64(e.body.Len())
	if n > math.MaxUint32 {
		return nil, fmt.Errorf("%w: track length %d", ErrEncodingOverflow, n)
	}
	out := make([]byte, 0, len(e.header)+8+int(n))
	out = append(out, e.header...)
	out = append(out, TrackTag...)
	out = binary.BigEndian.AppendUint32(out, uint32(n))
	out = append(out, e.body.Bytes()...)
	e.state = StateFinalized
	return out, nil
}

func (e *Encoder) writeDelta(tick uint32) error {
	delta, err := AppendVLQ(nil, tick-e.tick)
	if err != nil {
		return err
	}
	e.body.Write(delta)
	e.tick = tick
	return nil
}

// Encode writes a track as a format 0 file at timing.Resolution ticks per
// quarter: tempo at tick 0, every note as a note-on/note-off pair, and the
// end-of-track marker at the last release.
func Encode(t track.Track) ([]byte, error) {
	events, err := Expand(t.Notes)
	if err != nil {
		return nil, err
	}

	e := New()
	if err := e.WriteHeader(1, timing.Resolution); err != nil {
		return nil, err
	}
	if err := e.OpenTrack(); err != nil {
		return nil, err
	}
	if err := e.WriteTempo(t.BPM); err != nil {
		return nil, err
	}
	var end uint32
	for _, ev := range events {
		if err := e.WriteEvent(ev); err != nil {
			return nil, err
		}
		end = ev.Tick
	}
	if err := e.CloseTrack(end); err != nil {
		return nil, err
	}
	return e.Finalize()
}
