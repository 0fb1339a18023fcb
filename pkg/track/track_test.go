package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort(t *testing.T) {
	notes := []NoteEvent{
		{Pitch: 67, Start: 480, Duration: 10},
		{Pitch: 64, Start: 0, Duration: 10, Channel: 1},
		{Pitch: 60, Start: 0, Duration: 10, Channel: 1},
		{Pitch: 72, Start: 0, Duration: 10},
	}
	assert.False(t, IsSorted(notes))

	Sort(notes)
	assert.True(t, IsSorted(notes))
	assert.Equal(t, []uint8{72, 60, 64, 67}, []uint8{notes[0].Pitch, notes[1].Pitch, notes[2].Pitch, notes[3].Pitch})
}

func TestCloneIsIndependent(t *testing.T) {
	notes := []NoteEvent{{Pitch: 60, Duration: 1}}
	c := Clone(notes)
	c[0].Pitch = 61
	assert.Equal(t, uint8(60), notes[0].Pitch)
}

func TestSpanAndTotal(t *testing.T) {
	notes := []NoteEvent{
		{Start: 0, Duration: 1920},
		{Start: 480, Duration: 480},
		{Start: 1900, Duration: 100},
	}
	assert.Equal(t, uint32(2000), Span(notes))
	assert.Equal(t, uint64(2500), TotalDuration(notes))
	assert.Equal(t, uint32(0), Span(nil))
}
