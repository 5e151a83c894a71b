package hci

import (
	"context"
	"encoding/binary"

	"github.com/TimYorke/btle/pkg/bt"
)

// LESetAdvertisingEnableCommandPacket starts or stops advertising (Core Spec
// 7.8.9).
type LESetAdvertisingEnableCommandPacket struct {
	AdvertisingEnable bool
}

func (p *LESetAdvertisingEnableCommandPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 5)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLESetAdvertisingEnable))
	buf[3] = 1
	if p.AdvertisingEnable {
		buf[4] = 1
	}
	return buf, nil
}

func (p *LESetAdvertisingEnableCommandPacket) Unmarshal(buf []byte) error {
	if err := bt.ExpectLen(5, buf); err != nil {
		return err
	}
	if buf[0] != byte(PacketTypeCommand) ||
		binary.LittleEndian.Uint16(buf[1:]) != uint16(OpcodeLESetAdvertisingEnable) {
		return bt.ErrBadOpcode
	}
	if buf[3] != 1 {
		return &bt.BadBytesError{Index: 3}
	}
	if buf[4] > 1 {
		return &bt.BadBytesError{Index: 4}
	}
	p.AdvertisingEnable = buf[4] == 1
	return nil
}

func (p *LESetAdvertisingEnableCommandPacket) Opcode() Opcode {
	return OpcodeLESetAdvertisingEnable
}

// SetAdvertisingEnable enables or disables advertising with the parameters
// and data previously set.
func (a *Adapter) SetAdvertisingEnable(ctx context.Context, enable bool) error {
	buf, err := a.op(ctx, &LESetAdvertisingEnableCommandPacket{AdvertisingEnable: enable})
	if err != nil {
		return err
	}
	return status(OpcodeLESetAdvertisingEnable, buf)
}
