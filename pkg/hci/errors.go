package hci

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Transport-level errors. Every raw OS call in this package is classified
// through osError so callers see one vocabulary regardless of which syscall
// failed.
var (
	ErrPermissionDenied = errors.New("hci: permission denied")
	ErrBusy             = errors.New("hci: device or resource busy")
	ErrDeviceNotFound   = errors.New("hci: device not found")
	ErrNotConnected     = errors.New("hci: not connected")
)

// osError maps a raw OS call result onto the transport error taxonomy. nil
// passes through unchanged; unrecognized errnos are wrapped opaque with the
// failing operation named.
func osError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, unix.EPERM), errors.Is(err, unix.EACCES):
		return ErrPermissionDenied
	case errors.Is(err, unix.EBUSY):
		return ErrBusy
	case errors.Is(err, unix.ENODEV):
		return ErrDeviceNotFound
	case errors.Is(err, unix.ENOTCONN):
		return ErrNotConnected
	}
	return errors.Wrapf(err, "can't %s", op)
}

// CommandError reports a non-zero controller status in response to an HCI
// command.
type CommandError struct {
	Opcode Opcode
	Status uint8
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("hci: command %#04x failed with status %#02x", uint16(e.Opcode), e.Status)
}
