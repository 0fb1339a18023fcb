package midigen

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/melodygen/pkg/encoder"
)

// ErrNotSMF is returned for data that is not a Standard MIDI File
var ErrNotSMF = errors.New("not a standard MIDI file")

// IsSMFName reports whether filename carries a MIDI extension
func IsSMFName(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mid", ".midi", ".smf":
		return true
	}
	return false
}

// IsSMF checks for the MThd signature
func IsSMF(data []byte) bool {
	return len(data) >= 14 && string(data[:4]) == encoder.HeaderTag
}

// InspectFile reads and decodes a MIDI file
func InspectFile(filename string) (*Summary, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return Inspect(data)
}

// Inspect decodes data with the gomidi SMF reader and pairs note-ons with
// their note-offs. A note-on with velocity zero counts as a release.
func Inspect(data []byte) (*Summary, error) {
	if !IsSMF(data) {
		return nil, ErrNotSMF
	}
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	sum := &Summary{
		Format: binary.BigEndian.Uint16(data[8:10]),
		Tracks: len(s.Tracks),
	}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		sum.Resolution = mt.Resolution()
	}

	type key struct{ channel, pitch uint8 }
	for _, tr := range s.Tracks {
		open := make(map[key][]Note)
		var tick uint32
		for _, ev := range tr {
			tick += ev.Delta
			msg := ev.Message

			// Tempo: FF 51 03 tt tt tt
			if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				us := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if us > 0 && sum.Tempo == 0 {
					sum.Tempo = us
					sum.BPM = 60000000.0 / float64(us)
				}
				continue
			}
			if len(msg) < 3 {
				continue
			}
			status, pitch, velocity := msg[0]&0xF0, msg[1], msg[2]
			k := key{channel: msg[0] & 0x0F, pitch: pitch}
			switch {
			case status == 0x90 && velocity > 0:
				open[k] = append(open[k], Note{Channel: k.channel, Pitch: pitch, Velocity: velocity, Start: tick})
			case status == 0x80 || status == 0x90:
				pending := open[k]
				if len(pending) == 0 {
					continue
				}
				n := pending[0]
				open[k] = pending[1:]
				n.Duration = tick - n.Start
				sum.Notes = append(sum.Notes, n)
			}
		}
		if tick > sum.EndTick {
			sum.EndTick = tick
		}
		for _, pending := range open {
			sum.Unmatched += len(pending)
		}
	}

	// pairs were collected in release order
	sortNotes(sum.Notes)
	return sum, nil
}

func sortNotes(notes []Note) {
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
