// Package bt defines the fixed-width Bluetooth wire primitives and the error
// vocabulary shared by every encode/decode path in the stack.
package bt

import (
	"errors"
	"fmt"
)

// Errors shared by every encode/decode path in the stack. Packet and
// parameter decoders return these instead of ad-hoc errors so callers can
// distinguish a framing problem from a field problem.
var (
	ErrBadOpcode     = errors.New("bt: bad opcode")
	ErrInvalidFields = errors.New("bt: invalid field combination")

	// ErrConversion reports an out-of-range or malformed primitive value.
	// It carries no payload; values needing more detail define their own
	// error types.
	ErrConversion = errors.New("bt: value out of range")
)

// BadLengthError reports a buffer whose length does not satisfy the decoder's
// declared width.
type BadLengthError struct {
	Expected int
	Got      int
}

func (e *BadLengthError) Error() string {
	return fmt.Sprintf("bt: bad length: expected %d bytes, got %d", e.Expected, e.Got)
}

// BadBytesError reports an uninterpretable byte at a known buffer index.
type BadBytesError struct {
	Index int
}

func (e *BadBytesError) Error() string {
	return fmt.Sprintf("bt: bad byte at index %d", e.Index)
}

// ExpectLen returns a BadLengthError unless len(buf) == expected.
func ExpectLen(expected int, buf []byte) error {
	if len(buf) != expected {
		return &BadLengthError{Expected: expected, Got: len(buf)}
	}
	return nil
}

// AtLeastLen returns a BadLengthError unless len(buf) >= expected. Decoders
// of variable-length payloads use this so trailing data is tolerated.
func AtLeastLen(expected int, buf []byte) error {
	if len(buf) < expected {
		return &BadLengthError{Expected: expected, Got: len(buf)}
	}
	return nil
}
