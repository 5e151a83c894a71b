package hci

import (
	"encoding/binary"

	"github.com/TimYorke/btle/pkg/bt"
)

// Packet is one framed HCI packet, including the leading packet-type
// indicator.
type Packet interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// CommandPacket is a Packet carrying an HCI command.
type CommandPacket interface {
	Packet
	Opcode() Opcode
}

// Unmarshal decodes one packet from buf. Only the packet types admitted by
// DefaultFilter are understood here; anything else is a bad opcode.
func Unmarshal(buf []byte) (Packet, error) {
	if err := bt.AtLeastLen(1, buf); err != nil {
		return nil, err
	}
	switch PacketType(buf[0]) {
	case PacketTypeCommand:
		p := &GenericCommandPacket{}
		if err := p.Unmarshal(buf); err != nil {
			return nil, err
		}
		return p, nil
	case PacketTypeEvent:
		if err := bt.AtLeastLen(3, buf); err != nil {
			return nil, err
		}
		if len(buf) != int(buf[2])+3 {
			return nil, &bt.BadLengthError{Expected: int(buf[2]) + 3, Got: len(buf)}
		}
		switch EventCode(buf[1]) {
		case EventCodeCommandComplete:
			p := &CommandCompleteEventPacket{}
			return p, p.Unmarshal(buf)
		case EventCodeCommandStatus:
			p := &CommandStatusEventPacket{}
			return p, p.Unmarshal(buf)
		}
		return nil, &bt.BadBytesError{Index: 1}
	}
	return nil, bt.ErrBadOpcode
}

// GenericCommandPacket encompasses the argument-less commands.
type GenericCommandPacket struct {
	opcode Opcode
}

func NewGenericCommandPacket(opcode Opcode) *GenericCommandPacket {
	return &GenericCommandPacket{opcode}
}

func (p *GenericCommandPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 4)
	buf[0] = byte(PacketTypeCommand)
	binary.LittleEndian.PutUint16(buf[1:], uint16(p.opcode))
	return buf, nil
}

func (p *GenericCommandPacket) Unmarshal(buf []byte) error {
	if err := bt.ExpectLen(4, buf); err != nil {
		return err
	}
	if buf[0] != byte(PacketTypeCommand) {
		return bt.ErrBadOpcode
	}
	if buf[3] != 0 {
		return &bt.BadBytesError{Index: 3}
	}
	p.opcode = Opcode(binary.LittleEndian.Uint16(buf[1:3]))
	return nil
}

func (p *GenericCommandPacket) Opcode() Opcode {
	return p.opcode
}

// CommandCompleteEventPacket signals the controller finished a command and
// carries its return parameters.
type CommandCompleteEventPacket struct {
	NumCommandPackets uint8
	CommandOpcode     Opcode
	ReturnParameters  []byte
}

func (p *CommandCompleteEventPacket) Unmarshal(buf []byte) error {
	if err := bt.AtLeastLen(6, buf); err != nil {
		return err
	}
	if buf[0] != byte(PacketTypeEvent) || buf[1] != byte(EventCodeCommandComplete) {
		return bt.ErrBadOpcode
	}
	if len(buf) != int(buf[2])+3 {
		return &bt.BadLengthError{Expected: int(buf[2]) + 3, Got: len(buf)}
	}
	p.NumCommandPackets = buf[3]
	p.CommandOpcode = Opcode(binary.LittleEndian.Uint16(buf[4:6]))
	p.ReturnParameters = buf[6:]
	return nil
}

func (p *CommandCompleteEventPacket) Marshal() ([]byte, error) {
	if len(p.ReturnParameters)+3 > 0xFF {
		return nil, bt.ErrInvalidFields
	}
	buf := make([]byte, 6+len(p.ReturnParameters))
	buf[0] = byte(PacketTypeEvent)
	buf[1] = byte(EventCodeCommandComplete)
	buf[2] = byte(len(p.ReturnParameters) + 3)
	buf[3] = p.NumCommandPackets
	binary.LittleEndian.PutUint16(buf[4:], uint16(p.CommandOpcode))
	copy(buf[6:], p.ReturnParameters)
	return buf, nil
}

// CommandStatusEventPacket signals the controller accepted (or rejected) a
// command whose result will arrive later.
type CommandStatusEventPacket struct {
	Status            uint8
	NumCommandPackets uint8
	CommandOpcode     Opcode
}

func (p *CommandStatusEventPacket) Unmarshal(buf []byte) error {
	if err := bt.ExpectLen(7, buf); err != nil {
		return err
	}
	if buf[0] != byte(PacketTypeEvent) || buf[1] != byte(EventCodeCommandStatus) {
		return bt.ErrBadOpcode
	}
	if buf[2] != 4 {
		return &bt.BadBytesError{Index: 2}
	}
	p.Status = buf[3]
	p.NumCommandPackets = buf[4]
	p.CommandOpcode = Opcode(binary.LittleEndian.Uint16(buf[5:7]))
	return nil
}

func (p *CommandStatusEventPacket) Marshal() ([]byte, error) {
	buf := make([]byte, 7)
	buf[0] = byte(PacketTypeEvent)
	buf[1] = byte(EventCodeCommandStatus)
	buf[2] = 4
	buf[3] = p.Status
	buf[4] = p.NumCommandPackets
	binary.LittleEndian.PutUint16(buf[5:], uint16(p.CommandOpcode))
	return buf, nil
}
