package encoder

import (
	"errors"
	"fmt"
)

// MaxVLQ is the largest value a four byte variable-length quantity holds
const MaxVLQ = 0x0FFFFFFF

// ErrTruncatedVLQ is returned when input ends inside a quantity
var ErrTruncatedVLQ = errors.New("truncated variable-length quantity")

// AppendVLQ appends v as a MIDI variable-length quantity: seven bits per
// byte, most significant group first, continuation bit set on every byte
// but the last. Zero encodes as the single byte 0x00.
func AppendVLQ(dst []byte, v uint32) ([]byte, error) {
	if v > MaxVLQ {
		return dst, fmt.Errorf("%w: delta %d exceeds %d", ErrEncodingOverflow, v, MaxVLQ)
	}
	var buf [4]byte
	i := len(buf) - 1
	buf[i] = byte(v & 0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		buf[i] = byte(v&0x7F) | 0x80
	}
	return append(dst, buf[i:]...), nil
}

// DecodeVLQ reads a variable-length quantity from the start of b and
// returns the value and the number of bytes consumed.
func DecodeVLQ(b []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < len(b) && i < 4; i++ {
		v = v<<7 | uint32(b[i]&0x7F)
		if b[i]&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	if len(b) > 4 {
		return 0, 0, fmt.Errorf("%w: more than four bytes", ErrEncodingOverflow)
	}
	return 0, 0, ErrTruncatedVLQ
}
