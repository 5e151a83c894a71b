package hci

import (
	"encoding/binary"

	"github.com/TimYorke/btle/pkg/bt"
)

// FilterLen is the size of the HCI_FILTER socket option value.
const FilterLen = 14

// Filter is the kernel event filter installed on every bound socket. Bits in
// PacketTypes are indexed by PacketType tags; bits in Events by EventCode
// tags. The trailing 6 bytes of the option value (extended event mask and
// opcode match) are unused by this layer and left zero.
type Filter struct {
	PacketTypes uint32
	Events      uint32
}

// DefaultFilter admits commands and events, and of those events only Command
// Complete and Command Status.
var DefaultFilter = Filter{
	PacketTypes: 1<<PacketTypeCommand | 1<<PacketTypeEvent,
	Events:      1<<EventCodeCommandComplete | 1<<EventCodeCommandStatus,
}

// Marshal encodes the filter as the 14-byte option value.
func (f Filter) Marshal() []byte {
	buf := make([]byte, FilterLen)
	binary.LittleEndian.PutUint32(buf[0:4], f.PacketTypes)
	binary.LittleEndian.PutUint32(buf[4:8], f.Events)
	return buf
}

// UnmarshalFilter decodes a 14-byte option value.
func UnmarshalFilter(buf []byte) (Filter, error) {
	if err := bt.ExpectLen(FilterLen, buf); err != nil {
		return Filter{}, err
	}
	return Filter{
		PacketTypes: binary.LittleEndian.Uint32(buf[0:4]),
		Events:      binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}
