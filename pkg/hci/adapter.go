package hci

import (
	"context"
	"sync"

	"github.com/TimYorke/btle/pkg/bt"
	"github.com/google/uuid"
)

// PacketTransport carries framed HCI packets to and from a controller.
// *Socket satisfies it; so does any other transport that can reach the
// controller.
type PacketTransport interface {
	ReadPacket() (Packet, error)
	WritePacket(Packet) error
	Close() error
}

// Adapter drives a controller over a PacketTransport, matching command
// packets to their completion events. Commands may be issued from multiple
// goroutines, but each wraps one write/read exchange with the controller, so
// callers must serialize command/response pairs per transport themselves.
type Adapter struct {
	PacketTransport

	onPacketLock sync.Mutex
	onPacket     map[string]func(Packet, error)
}

// NewAdapter starts the read loop on t and returns the adapter. The loop
// exits when the transport reports an error, which is fanned out to every
// pending command.
func NewAdapter(t PacketTransport) *Adapter {
	a := &Adapter{
		PacketTransport: t,
		onPacket:        make(map[string]func(Packet, error)),
	}
	go func() {
		for {
			p, err := a.ReadPacket()
			a.onPacketLock.Lock()
			for _, cb := range a.onPacket {
				go cb(p, err)
			}
			a.onPacketLock.Unlock()
			if err != nil {
				return
			}
		}
	}()
	return a
}

type opResult struct {
	buf []byte
	err error
}

// op writes a command and waits for its Command Complete event, honoring ctx
// cancellation. Command Status with a non-zero status also completes the
// exchange, as a failure.
func (a *Adapter) op(ctx context.Context, p CommandPacket) ([]byte, error) {
	done := make(chan opResult, 1)
	id := uuid.NewString()
	a.onPacketLock.Lock()
	a.onPacket[id] = func(q Packet, err error) {
		if err != nil {
			select {
			case done <- opResult{err: err}:
			default:
			}
			return
		}
		switch q := q.(type) {
		case *CommandCompleteEventPacket:
			if q.CommandOpcode != p.Opcode() {
				return
			}
			select {
			case done <- opResult{buf: q.ReturnParameters}:
			default:
			}
		case *CommandStatusEventPacket:
			if q.CommandOpcode != p.Opcode() || q.Status == 0 {
				return
			}
			select {
			case done <- opResult{err: &CommandError{Opcode: q.CommandOpcode, Status: q.Status}}:
			default:
			}
		}
	}
	a.onPacketLock.Unlock()
	defer func() {
		a.onPacketLock.Lock()
		delete(a.onPacket, id)
		a.onPacketLock.Unlock()
	}()

	if err := a.WritePacket(p); err != nil {
		return nil, err
	}
	select {
	case r := <-done:
		return r.buf, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// status interprets return parameters whose first byte is the controller
// status code.
func status(opcode Opcode, buf []byte) error {
	if err := bt.AtLeastLen(1, buf); err != nil {
		return err
	}
	if buf[0] != 0 {
		return &CommandError{Opcode: opcode, Status: buf[0]}
	}
	return nil
}

// Reset resets the controller's link layer state.
func (a *Adapter) Reset(ctx context.Context) error {
	buf, err := a.op(ctx, NewGenericCommandPacket(OpcodeReset))
	if err != nil {
		return err
	}
	return status(OpcodeReset, buf)
}

// ReadBDAddr returns the controller's public device address.
func (a *Adapter) ReadBDAddr(ctx context.Context) (bt.Address, error) {
	buf, err := a.op(ctx, NewGenericCommandPacket(OpcodeReadBDAddr))
	if err != nil {
		return bt.ZeroAddress, err
	}
	if err := status(OpcodeReadBDAddr, buf); err != nil {
		return bt.ZeroAddress, err
	}
	return bt.NewAddress(buf[1:])
}
