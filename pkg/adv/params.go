// Package adv defines the BLE advertising parameter block and the Advertiser
// capability implemented by HCI transports.
package adv

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/TimYorke/btle/pkg/bt"
)

// Interval is a BLE advertising interval in units of 0.625 ms.
type Interval uint16

const (
	IntervalMin        Interval = 0x0020
	IntervalMinNonConn Interval = 0x00A0
	IntervalMax        Interval = 0x4000
	IntervalDefault    Interval = 0x0800

	// IntervalLen is the wire width of an Interval in bytes.
	IntervalLen = 2
)

// NewInterval returns ErrConversion if v is outside [0x0020, 0x4000].
func NewInterval(v uint16) (Interval, error) {
	if Interval(v) < IntervalMin || Interval(v) > IntervalMax {
		return 0, bt.ErrConversion
	}
	return Interval(v), nil
}

// MustInterval is NewInterval for trusted values; it panics on out-of-range
// input.
func MustInterval(v uint16) Interval {
	i, err := NewInterval(v)
	if err != nil {
		panic(fmt.Sprintf("adv: invalid advertising interval %#04x", v))
	}
	return i
}

// IntervalFromDuration converts d to interval units, rejecting durations that
// land outside the valid range.
func IntervalFromDuration(d time.Duration) (Interval, error) {
	units := d.Microseconds() / 625
	if units < 0 || units > int64(IntervalMax) {
		return 0, bt.ErrConversion
	}
	return NewInterval(uint16(units))
}

// Duration returns the interval as a time.Duration.
func (i Interval) Duration() time.Duration {
	return time.Duration(i) * 625 * time.Microsecond
}

// Type selects the advertising PDU type.
type Type uint8

const (
	TypeADVInd                    Type = 0x00
	TypeADVDirectIndHighDutyCycle Type = 0x01
	TypeADVScanInd                Type = 0x02
	// TypeADVNonConnInd requires an interval of at least IntervalMinNonConn
	// on BT 4.x controllers.
	TypeADVNonConnInd            Type = 0x03
	TypeADVDirectIndLowDutyCycle Type = 0x04
)

// TypeFromCode maps an on-wire code back to a Type, rejecting unknown codes.
func TypeFromCode(c uint8) (Type, error) {
	if c > uint8(TypeADVDirectIndLowDutyCycle) {
		return 0, bt.ErrConversion
	}
	return Type(c), nil
}

// OwnAddressType selects the address the controller advertises with.
type OwnAddressType uint8

const (
	OwnAddressPublic          OwnAddressType = 0x00
	OwnAddressRandom          OwnAddressType = 0x01
	OwnAddressPrivateOrPublic OwnAddressType = 0x02
	OwnAddressPrivateOrRandom OwnAddressType = 0x03
)

// OwnAddressTypeFromCode maps an on-wire code back to an OwnAddressType.
func OwnAddressTypeFromCode(c uint8) (OwnAddressType, error) {
	if c > uint8(OwnAddressPrivateOrRandom) {
		return 0, bt.ErrConversion
	}
	return OwnAddressType(c), nil
}

// PeerAddressType classifies the peer address in directed advertising.
type PeerAddressType uint8

const (
	PeerAddressPublic PeerAddressType = 0x00
	PeerAddressRandom PeerAddressType = 0x01
)

// PeerAddressTypeFromCode maps an on-wire code back to a PeerAddressType.
func PeerAddressTypeFromCode(c uint8) (PeerAddressType, error) {
	if c > uint8(PeerAddressRandom) {
		return 0, bt.ErrConversion
	}
	return PeerAddressType(c), nil
}

// Channel is one of the three BLE advertising channels. The value is the bit
// index within a ChannelMap.
type Channel uint8

const (
	Channel37 Channel = 0x00
	Channel38 Channel = 0x01
	Channel39 Channel = 0x02
)

// ChannelMap is a bitmask over the three advertising channels.
type ChannelMap uint8

const (
	ChannelMapNone ChannelMap = 0x00
	ChannelMapAll  ChannelMap = 0x07

	ChannelMapDefault = ChannelMapAll
)

// NewChannelMap returns ErrConversion if bits above the three channel bits
// are set.
func NewChannelMap(m uint8) (ChannelMap, error) {
	if ChannelMap(m) > ChannelMapAll {
		return 0, bt.ErrConversion
	}
	return ChannelMap(m), nil
}

// MustChannelMap is NewChannelMap for trusted values; it panics on invalid
// input.
func MustChannelMap(m uint8) ChannelMap {
	cm, err := NewChannelMap(m)
	if err != nil {
		panic(fmt.Sprintf("adv: invalid channel map %#02x", m))
	}
	return cm
}

// Enable returns the map with channel c enabled.
func (m ChannelMap) Enable(c Channel) ChannelMap {
	return m | 1<<c
}

// Disable returns the map with channel c disabled.
func (m ChannelMap) Disable(c Channel) ChannelMap {
	return m &^ (1 << c)
}

// Enabled reports whether channel c is enabled.
func (m ChannelMap) Enabled(c Channel) bool {
	return m&(1<<c) != 0
}

// FilterPolicy controls which devices' scan and connection requests the
// controller processes while advertising.
type FilterPolicy uint8

const (
	// FilterPolicyAll processes scan and connection requests from all
	// devices.
	FilterPolicyAll FilterPolicy = 0x00
	// FilterPolicyScanWhitelist processes connection requests from all
	// devices but scan requests only from whitelisted ones.
	FilterPolicyScanWhitelist FilterPolicy = 0x01
	// FilterPolicyConnectionWhitelist processes scan requests from all
	// devices but connection requests only from whitelisted ones.
	FilterPolicyConnectionWhitelist FilterPolicy = 0x02
	// FilterPolicyWhitelist processes scan and connection requests only
	// from whitelisted devices.
	FilterPolicyWhitelist FilterPolicy = 0x03
)

// FilterPolicyFromCode maps an on-wire code back to a FilterPolicy.
func FilterPolicyFromCode(c uint8) (FilterPolicy, error) {
	if c > uint8(FilterPolicyWhitelist) {
		return 0, bt.ErrConversion
	}
	return FilterPolicy(c), nil
}

// ParametersLen is the packed width of a Parameters block:
// interval min (2) + interval max (2) + type (1) + own address type (1) +
// peer address type (1) + peer address (6) + channel map (1) +
// filter policy (1).
const ParametersLen = IntervalLen*2 + 1 + 1 + 1 + bt.AddressLen + 1 + 1

// Parameters is the full LE advertising parameter block sent to the
// controller.
type Parameters struct {
	IntervalMin     Interval
	IntervalMax     Interval
	Type            Type
	OwnAddressType  OwnAddressType
	PeerAddressType PeerAddressType
	PeerAddress     bt.Address
	ChannelMap      ChannelMap
	FilterPolicy    FilterPolicy
}

// DefaultParameters is undirected connectable advertising at the default
// interval on all three channels.
var DefaultParameters = Parameters{
	IntervalMin:     IntervalDefault,
	IntervalMax:     IntervalDefault,
	Type:            TypeADVInd,
	OwnAddressType:  OwnAddressPublic,
	PeerAddressType: PeerAddressPublic,
	PeerAddress:     bt.ZeroAddress,
	ChannelMap:      ChannelMapDefault,
	FilterPolicy:    FilterPolicyAll,
}

// WithAddress returns a copy of p with the peer address replaced.
func (p Parameters) WithAddress(a bt.Address) Parameters {
	p.PeerAddress = a
	return p
}

// WithInterval returns a copy of p with both interval bounds replaced.
func (p Parameters) WithInterval(min, max Interval) Parameters {
	p.IntervalMin = min
	p.IntervalMax = max
	return p
}

func (p Parameters) validate() error {
	if _, err := NewInterval(uint16(p.IntervalMin)); err != nil {
		return bt.ErrInvalidFields
	}
	if _, err := NewInterval(uint16(p.IntervalMax)); err != nil {
		return bt.ErrInvalidFields
	}
	if p.IntervalMin > p.IntervalMax {
		return bt.ErrInvalidFields
	}
	if p.Type > TypeADVDirectIndLowDutyCycle ||
		p.OwnAddressType > OwnAddressPrivateOrRandom ||
		p.PeerAddressType > PeerAddressRandom ||
		p.ChannelMap > ChannelMapAll ||
		p.FilterPolicy > FilterPolicyWhitelist {
		return bt.ErrInvalidFields
	}
	return nil
}

// Pack encodes the block into buf, which must be exactly ParametersLen bytes.
// Invalid field combinations are rejected before any byte is written.
func (p Parameters) Pack(buf []byte) error {
	if err := bt.ExpectLen(ParametersLen, buf); err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(buf[0:2], uint16(p.IntervalMin))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(p.IntervalMax))
	buf[4] = byte(p.Type)
	buf[5] = byte(p.OwnAddressType)
	buf[6] = byte(p.PeerAddressType)
	copy(buf[7:13], p.PeerAddress[:])
	buf[13] = byte(p.ChannelMap)
	buf[14] = byte(p.FilterPolicy)
	return nil
}

// UnpackParameters decodes a parameter block from exactly ParametersLen
// bytes, rejecting bytes that do not map to a documented enumeration value.
func UnpackParameters(buf []byte) (Parameters, error) {
	var p Parameters
	if err := bt.ExpectLen(ParametersLen, buf); err != nil {
		return p, err
	}
	min, err := NewInterval(binary.LittleEndian.Uint16(buf[0:2]))
	if err != nil {
		return p, &bt.BadBytesError{Index: 0}
	}
	max, err := NewInterval(binary.LittleEndian.Uint16(buf[2:4]))
	if err != nil {
		return p, &bt.BadBytesError{Index: 2}
	}
	typ, err := TypeFromCode(buf[4])
	if err != nil {
		return p, &bt.BadBytesError{Index: 4}
	}
	own, err := OwnAddressTypeFromCode(buf[5])
	if err != nil {
		return p, &bt.BadBytesError{Index: 5}
	}
	peer, err := PeerAddressTypeFromCode(buf[6])
	if err != nil {
		return p, &bt.BadBytesError{Index: 6}
	}
	addr, err := bt.UnpackAddress(buf[7:13])
	if err != nil {
		return p, err
	}
	cm, err := NewChannelMap(buf[13])
	if err != nil {
		return p, &bt.BadBytesError{Index: 13}
	}
	fp, err := FilterPolicyFromCode(buf[14])
	if err != nil {
		return p, &bt.BadBytesError{Index: 14}
	}
	return Parameters{
		IntervalMin:     min,
		IntervalMax:     max,
		Type:            typ,
		OwnAddressType:  own,
		PeerAddressType: peer,
		PeerAddress:     addr,
		ChannelMap:      cm,
		FilterPolicy:    fp,
	}, nil
}
