package bt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	want := Address{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}

	a, err := ParseAddress("00:11:22:33:44:55")
	require.NoError(t, err)
	assert.Equal(t, want, a)

	a, err = ParseAddress("00-11-22-33-44-55")
	require.NoError(t, err)
	assert.Equal(t, want, a)
}

func TestParseAddressErrors(t *testing.T) {
	for _, s := range []string{
		"00:11:22:33:44",       // 5 octets
		"00:11:22:33:44:55:66", // 7 octets
		"00:11:22:33:44:zz",    // non-hex octet
		"",
		"001122334455",
		"00:11:22:33:44:",
	} {
		_, err := ParseAddress(s)
		assert.ErrorIs(t, err, ErrConversion, "input %q", s)
	}
}

func TestAddressString(t *testing.T) {
	a := Address{0x00, 0x1A, 0x7D, 0xDA, 0x71, 0x13}
	assert.Equal(t, "00:1A:7D:DA:71:13", a.String())
}

func TestAddressType(t *testing.T) {
	cases := []struct {
		lastByte byte
		want     AddressType
	}{
		{0b0011_1111, AddressTypeNonResolvablePrivate},
		{0b0111_1111, AddressTypeResolvablePrivate},
		{0b1011_1111, AddressTypeRFU},
		{0b1111_1111, AddressTypeStatic},
	}
	for _, c := range cases {
		a := Address{0, 0, 0, 0, 0, c.lastByte}
		assert.Equal(t, c.want, a.Type(), "last byte %#02x", c.lastByte)
	}
}

func TestPrivateParts(t *testing.T) {
	// Resolvable private: top two bits of the last byte are 01.
	a := Address{0x01, 0x02, 0x03, 0x04, 0x05, 0x46}
	hash, prand, ok := a.PrivateParts()
	require.True(t, ok)
	assert.Equal(t, uint32(0x030201), hash)
	assert.Equal(t, uint32(0x460504), prand)

	for _, last := range []byte{0x00, 0x80, 0xC0} {
		a := Address{0x01, 0x02, 0x03, 0x04, 0x05, last}
		_, _, ok := a.PrivateParts()
		assert.False(t, ok, "last byte %#02x", last)
	}
}

func TestAddressPackUnpack(t *testing.T) {
	a := Address{1, 2, 3, 4, 5, 6}
	buf := make([]byte, AddressLen)
	require.NoError(t, a.Pack(buf))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, buf)

	got, err := UnpackAddress(buf)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	var lenErr *BadLengthError
	_, err = UnpackAddress(buf[:5])
	require.ErrorAs(t, err, &lenErr)
	assert.Equal(t, 6, lenErr.Expected)
	assert.Equal(t, 5, lenErr.Got)

	assert.Error(t, a.Pack(make([]byte, 7)))
}

func TestAddressUint64(t *testing.T) {
	a := Address{0x11, 0x22, 0x33, 0x44, 0x55, 0x66}
	assert.Equal(t, uint64(0x665544332211), a.Uint64())
	assert.Equal(t, a, AddressFromUint64(a.Uint64()))
	// High two bytes are dropped.
	assert.Equal(t, a, AddressFromUint64(0xFFFF665544332211))
}

func TestNewAddress(t *testing.T) {
	_, err := NewAddress([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrConversion)

	assert.Panics(t, func() { MustAddress([]byte{1, 2, 3}) })
	assert.NotPanics(t, func() { MustAddress([]byte{1, 2, 3, 4, 5, 6}) })
}
