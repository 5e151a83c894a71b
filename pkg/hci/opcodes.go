package hci

// PacketType is the H4 packet indicator prefixed to every HCI packet. The
// numeric tag doubles as the bit index in the socket filter's packet-type
// mask.
type PacketType uint8

const (
	PacketTypeCommand         PacketType = 0x01
	PacketTypeACLData         PacketType = 0x02
	PacketTypeSynchronousData PacketType = 0x03
	PacketTypeEvent           PacketType = 0x04
)

// Opcode identifies an HCI command (OGF<<10 | OCF).
type Opcode uint16

const (
	OpcodeReset                      Opcode = 0x0C03
	OpcodeReadBDAddr                 Opcode = 0x1009
	OpcodeLESetAdvertisingParameters Opcode = 0x2006
	OpcodeLESetAdvertisingData       Opcode = 0x2008
	OpcodeLESetAdvertisingEnable     Opcode = 0x200A
)

// EventCode identifies an HCI event. The numeric code doubles as the bit
// index in the socket filter's event mask.
type EventCode uint8

const (
	EventCodeDisconnectionComplete EventCode = 0x05
	EventCodeCommandComplete       EventCode = 0x0E
	EventCodeCommandStatus         EventCode = 0x0F
	EventCodeHardwareError         EventCode = 0x10
	EventCodeLEMeta                EventCode = 0x3E
)
