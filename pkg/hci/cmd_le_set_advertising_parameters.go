package hci

import (
	"context"
	"encoding/binary"

	"github.com/TimYorke/btle/pkg/adv"
	"github.com/TimYorke/btle/pkg/bt"
)

var _ adv.Advertiser = (*Adapter)(nil)

// LESetAdvertisingParametersCommandPacket carries the 15-byte advertising
// parameter block (Core Spec 7.8.5).
type LESetAdvertisingParametersCommandPacket struct {
	Parameters adv.Parameters
}

func (p *LESetAdvertisingParametersCommandPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 4+adv.ParametersLen)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(OpcodeLESetAdvertisingParameters))
	buf[3] = adv.ParametersLen
	if err := p.Parameters.Pack(buf[4:]); err != nil {
		return nil, err
	}
	return buf, nil
}

func (p *LESetAdvertisingParametersCommandPacket) Unmarshal(buf []byte) error {
	if err := bt.ExpectLen(4+adv.ParametersLen, buf); err != nil {
		return err
	}
	if buf[0] != byte(PacketTypeCommand) ||
		binary.LittleEndian.Uint16(buf[1:]) != uint16(OpcodeLESetAdvertisingParameters) {
		return bt.ErrBadOpcode
	}
	if buf[3] != adv.ParametersLen {
		return &bt.BadBytesError{Index: 3}
	}
	params, err := adv.UnpackParameters(buf[4:])
	if err != nil {
		return err
	}
	p.Parameters = params
	return nil
}

func (p *LESetAdvertisingParametersCommandPacket) Opcode() Opcode {
	return OpcodeLESetAdvertisingParameters
}

// SetAdvertisingParameters packs and sends the parameter block, surfacing
// pack errors on the same error channel as controller failures.
func (a *Adapter) SetAdvertisingParameters(ctx context.Context, p adv.Parameters) error {
	buf, err := a.op(ctx, &LESetAdvertisingParametersCommandPacket{Parameters: p})
	if err != nil {
		return err
	}
	return status(OpcodeLESetAdvertisingParameters, buf)
}
