package timing

import (
	"fmt"
	"strings"
)

// Strum spreads the tones of a chord over a few ticks
type Strum struct {
	Name      string
	Direction string // "none", "down" (low to high), "up" (high to low) or "alt"
	Step      uint32 // Ticks between successive tones
}

// Alternating strums go down on the attack and up on the release
const alternate = "alt"

var strumPatterns = []Strum{
	{Name: "none", Direction: "none"},
	{Name: "down_slow", Direction: "down", Step: Resolution / 8},
	{Name: "down_med", Direction: "down", Step: Resolution / 16},
	{Name: "down_fast", Direction: "down", Step: Resolution / 32},
	{Name: "up_slow", Direction: "up", Step: Resolution / 8},
	{Name: "up_med", Direction: "up", Step: Resolution / 16},
	{Name: "up_fast", Direction: "up", Step: Resolution / 32},
	{Name: "alt_slow", Direction: alternate, Step: Resolution / 8},
	{Name: "alt_med", Direction: alternate, Step: Resolution / 16},
	{Name: "alt_fast", Direction: alternate, Step: Resolution / 32},
}

// ParseStrum resolves a strum pattern name. Empty selects "none".
func ParseStrum(name string) (Strum, error) {
	if name == "" {
		return strumPatterns[0], nil
	}
	key := strings.ToLower(strings.TrimSpace(name))
	for _, s := range strumPatterns {
		if s.Name == key {
			return s, nil
		}
	}
	return Strum{}, fmt.Errorf("unknown strum pattern %q", name)
}

// StrumPatterns returns the supported pattern names
func StrumPatterns() []string {
	names := make([]string, len(strumPatterns))
	for i, s := range strumPatterns {
		names[i] = s.Name
	}
	return names
}

// Active reports whether the pattern moves any tone
func (s Strum) Active() bool {
	return s.Step > 0 && s.Direction != "none"
}

// Offsets returns the start offset of each of n tones ordered low to high.
// No offset ever reaches span, so strummed tones keep at least one tick of
// sound inside a chord of that length.
func (s Strum) Offsets(n int, span uint32) []uint32 {
	dir := s.Direction
	if dir == alternate {
		dir = "down"
	}
	return s.spread(dir, n, span)
}

// ReleaseOffsets returns how many ticks before the end of the chord each of
// n tones (low to high) is released. The last tone in strum order releases
// on the chord end. Alternating patterns release upwards.
func (s Strum) ReleaseOffsets(n int, span uint32) []uint32 {
	dir := s.Direction
	if dir == alternate {
		dir = "up"
	}
	leads := s.spread(dir, n, span)
	var last uint32
	for _, l := range leads {
		last = max(last, l)
	}
	for i := range leads {
		leads[i] = last - leads[i]
	}
	return leads
}

func (s Strum) spread(dir string, n int, span uint32) []uint32 {
	offsets := make([]uint32, n)
	if !s.Active() || n < 2 {
		return offsets
	}
	step := s.Step
	if limit := span / uint32(n); step >= limit {
		step = limit / 2
	}
	for i := range offsets {
		pos := i
		if dir == "up" {
			pos = n - 1 - i
		}
		offsets[i] = uint32(pos) * step
	}
	return offsets
}
