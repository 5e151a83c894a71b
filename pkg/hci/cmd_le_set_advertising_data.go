package hci

import (
	"context"
	"encoding/binary"

	"github.com/TimYorke/btle/pkg/bt"
)

// LESetAdvertisingDataCommandPacket carries the advertising payload (Core
// Spec 7.8.7). The parameter block is always 32 bytes on the wire: a
// significant-length byte followed by 31 data bytes, zero padded.
type LESetAdvertisingDataCommandPacket struct {
	AdvertisingData []byte
}

func (p *LESetAdvertisingDataCommandPacket) Marshal() ([]byte, error) {
	if len(p.AdvertisingData) > 31 {
		return nil, &bt.BadLengthError{Expected: 31, Got: len(p.AdvertisingData)}
	}
	buf := make([]byte, 36)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLESetAdvertisingData))
	buf[3] = 32
	buf[4] = byte(len(p.AdvertisingData))
	copy(buf[5:], p.AdvertisingData)
	return buf, nil
}

func (p *LESetAdvertisingDataCommandPacket) Unmarshal(buf []byte) error {
	if err := bt.ExpectLen(36, buf); err != nil {
		return err
	}
	if buf[0] != byte(PacketTypeCommand) ||
		binary.LittleEndian.Uint16(buf[1:]) != uint16(OpcodeLESetAdvertisingData) {
		return bt.ErrBadOpcode
	}
	if buf[3] != 32 {
		return &bt.BadBytesError{Index: 3}
	}
	if buf[4] > 31 {
		return &bt.BadBytesError{Index: 4}
	}
	p.AdvertisingData = buf[5 : 5+buf[4]]
	return nil
}

func (p *LESetAdvertisingDataCommandPacket) Opcode() Opcode {
	return OpcodeLESetAdvertisingData
}

// SetAdvertisingData sets the advertising payload. Data over the 31-byte PDU
// limit is rejected, not truncated.
func (a *Adapter) SetAdvertisingData(ctx context.Context, data []byte) error {
	buf, err := a.op(ctx, &LESetAdvertisingDataCommandPacket{AdvertisingData: data})
	if err != nil {
		return err
	}
	return status(OpcodeLESetAdvertisingData, buf)
}
