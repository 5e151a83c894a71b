package bt

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// AddressLen is the length of a Bluetooth device address in bytes.
const AddressLen = 6

// Address is a 6-byte Bluetooth device address, stored in wire order
// (little-endian, least significant byte first).
type Address [AddressLen]byte

// ZeroAddress is the all-zero address, used as the default peer address.
var ZeroAddress = Address{}

// AddressType classifies a random address by the two most significant bits of
// its last byte (Core Spec Vol 6 Part B 1.3.2).
type AddressType uint8

const (
	AddressTypeNonResolvablePrivate AddressType = 0b00
	AddressTypeResolvablePrivate    AddressType = 0b01
	AddressTypeRFU                  AddressType = 0b10
	AddressTypeStatic               AddressType = 0b11
)

// NewAddress copies b into an Address. It returns ErrConversion if b is not
// exactly 6 bytes.
func NewAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, ErrConversion
	}
	copy(a[:], b)
	return a, nil
}

// MustAddress is NewAddress for trusted values; it panics on bad length.
func MustAddress(b []byte) Address {
	a, err := NewAddress(b)
	if err != nil {
		panic(fmt.Sprintf("bt: address wrong length %d", len(b)))
	}
	return a
}

// AddressFromUint64 uses the 6 low bytes of u, little-endian.
func AddressFromUint64(u uint64) Address {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u)
	var a Address
	copy(a[:], b[:AddressLen])
	return a
}

// Uint64 returns the address as the 6 low bytes of a uint64, little-endian.
func (a Address) Uint64() uint64 {
	var b [8]byte
	copy(b[:], a[:])
	return binary.LittleEndian.Uint64(b[:])
}

// UnpackAddress decodes exactly 6 bytes.
func UnpackAddress(buf []byte) (Address, error) {
	var a Address
	if err := ExpectLen(AddressLen, buf); err != nil {
		return a, err
	}
	copy(a[:], buf)
	return a, nil
}

// Pack encodes the address into buf, which must be exactly 6 bytes.
func (a Address) Pack(buf []byte) error {
	if err := ExpectLen(AddressLen, buf); err != nil {
		return err
	}
	copy(buf, a[:])
	return nil
}

// Type derives the address type from the top two bits of the last byte.
func (a Address) Type() AddressType {
	return AddressType(a[AddressLen-1] >> 6)
}

// PrivateParts returns the 24-bit hash and 24-bit prand of a resolvable
// private address. prand includes the address type bits. ok is false for any
// other address type.
func (a Address) PrivateParts() (hash, prand uint32, ok bool) {
	if a.Type() != AddressTypeResolvablePrivate {
		return 0, 0, false
	}
	hash = uint32(a[0]) | uint32(a[1])<<8 | uint32(a[2])<<16
	prand = uint32(a[3]) | uint32(a[4])<<8 | uint32(a[5])<<16
	return hash, prand, true
}

func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// ParseAddress parses a colon- or hyphen-delimited address such as
// "00:11:22:33:44:55" or "00-11-22-33-44-55". Exactly 6 hex octets are
// required.
func ParseAddress(s string) (Address, error) {
	var a Address
	octets := strings.Split(strings.ReplaceAll(s, "-", ":"), ":")
	if len(octets) != AddressLen {
		return a, ErrConversion
	}
	for i, o := range octets {
		v, err := strconv.ParseUint(o, 16, 8)
		if err != nil {
			return a, ErrConversion
		}
		a[i] = byte(v)
	}
	return a, nil
}
