package hci

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/TimYorke/btle/pkg/adv"
	"github.com/TimYorke/btle/pkg/bt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockController is an in-memory PacketTransport that answers every written
// command through handle. Writes exercise real packet marshalling so pack
// errors surface exactly as they would over a socket.
type mockController struct {
	handle func(CommandPacket) Packet
	events chan Packet
	done   chan struct{}
}

func newMockController(handle func(CommandPacket) Packet) *mockController {
	return &mockController{
		handle: handle,
		events: make(chan Packet, 16),
		done:   make(chan struct{}),
	}
}

func (m *mockController) ReadPacket() (Packet, error) {
	select {
	case p := <-m.events:
		return p, nil
	case <-m.done:
		return nil, io.EOF
	}
}

func (m *mockController) WritePacket(p Packet) error {
	if _, err := p.Marshal(); err != nil {
		return err
	}
	if resp := m.handle(p.(CommandPacket)); resp != nil {
		m.events <- resp
	}
	return nil
}

func (m *mockController) Close() error {
	close(m.done)
	return nil
}

func complete(opcode Opcode, params ...byte) Packet {
	return &CommandCompleteEventPacket{
		NumCommandPackets: 1,
		CommandOpcode:     opcode,
		ReturnParameters:  params,
	}
}

func TestAdapterReset(t *testing.T) {
	mc := newMockController(func(p CommandPacket) Packet {
		return complete(p.Opcode(), 0x00)
	})
	a := NewAdapter(mc)
	defer a.Close()

	assert.NoError(t, a.Reset(context.Background()))
}

func TestAdapterReadBDAddr(t *testing.T) {
	mc := newMockController(func(p CommandPacket) Packet {
		require.Equal(t, OpcodeReadBDAddr, p.Opcode())
		return complete(p.Opcode(), 0x00, 1, 2, 3, 4, 5, 6)
	})
	a := NewAdapter(mc)
	defer a.Close()

	addr, err := a.ReadBDAddr(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bt.Address{1, 2, 3, 4, 5, 6}, addr)
}

func TestAdapterCommandError(t *testing.T) {
	mc := newMockController(func(p CommandPacket) Packet {
		return complete(p.Opcode(), 0x0C) // command disallowed
	})
	a := NewAdapter(mc)
	defer a.Close()

	err := a.SetAdvertisingEnable(context.Background(), true)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, OpcodeLESetAdvertisingEnable, cmdErr.Opcode)
	assert.Equal(t, uint8(0x0C), cmdErr.Status)
}

func TestAdapterCommandStatusFailure(t *testing.T) {
	mc := newMockController(func(p CommandPacket) Packet {
		return &CommandStatusEventPacket{
			Status:            0x01, // unknown command
			NumCommandPackets: 1,
			CommandOpcode:     p.Opcode(),
		}
	})
	a := NewAdapter(mc)
	defer a.Close()

	err := a.Reset(context.Background())
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, uint8(0x01), cmdErr.Status)
}

func TestAdapterIgnoresUnrelatedCompletions(t *testing.T) {
	mc := newMockController(func(p CommandPacket) Packet {
		return complete(p.Opcode(), 0x00)
	})
	a := NewAdapter(mc)
	defer a.Close()

	// A stray completion for another opcode must not satisfy the pending
	// command.
	mc.events <- complete(OpcodeReadBDAddr, 0x00)
	assert.NoError(t, a.Reset(context.Background()))
}

func TestAdapterAdvertiser(t *testing.T) {
	var gotParams []byte
	var gotData []byte
	mc := newMockController(func(p CommandPacket) Packet {
		switch p := p.(type) {
		case *LESetAdvertisingParametersCommandPacket:
			buf, _ := p.Marshal()
			gotParams = buf[4:]
		case *LESetAdvertisingDataCommandPacket:
			gotData = p.AdvertisingData
		}
		return complete(p.Opcode(), 0x00)
	})
	a := NewAdapter(mc)
	defer a.Close()

	var advertiser adv.Advertiser = a
	ctx := context.Background()

	require.NoError(t, advertiser.SetAdvertisingParameters(ctx, adv.DefaultParameters))
	want := make([]byte, adv.ParametersLen)
	require.NoError(t, adv.DefaultParameters.Pack(want))
	assert.Equal(t, want, gotParams)

	require.NoError(t, advertiser.SetAdvertisingData(ctx, []byte{0x02, 0x01, 0x06}))
	assert.Equal(t, []byte{0x02, 0x01, 0x06}, gotData)

	require.NoError(t, advertiser.SetAdvertisingEnable(ctx, true))
	require.NoError(t, advertiser.SetAdvertisingEnable(ctx, false))
}

func TestAdapterSurfacesPackErrors(t *testing.T) {
	mc := newMockController(func(p CommandPacket) Packet {
		return complete(p.Opcode(), 0x00)
	})
	a := NewAdapter(mc)
	defer a.Close()

	params := adv.DefaultParameters
	params.IntervalMin = 0x0001
	err := a.SetAdvertisingParameters(context.Background(), params)
	assert.ErrorIs(t, err, bt.ErrInvalidFields)

	err = a.SetAdvertisingData(context.Background(), make([]byte, 32))
	var lenErr *bt.BadLengthError
	assert.ErrorAs(t, err, &lenErr)
}

func TestAdapterContextCancellation(t *testing.T) {
	mc := newMockController(func(p CommandPacket) Packet {
		return nil // controller never answers
	})
	a := NewAdapter(mc)
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := a.Reset(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAdapterTransportFailure(t *testing.T) {
	mc := newMockController(func(p CommandPacket) Packet {
		return nil
	})
	a := NewAdapter(mc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Reset(context.Background())
	}()

	// Closing the transport fails the read loop, which must fan out to the
	// pending command rather than leaving it hung.
	time.Sleep(10 * time.Millisecond)
	a.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, io.EOF)
	case <-time.After(time.Second):
		t.Fatal("pending command not released on transport failure")
	}
}
