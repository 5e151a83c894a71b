package bt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRSSI(t *testing.T) {
	for _, dbm := range []int8{-127, -100, 0, 20} {
		r, err := NewRSSI(dbm)
		require.NoError(t, err, "dbm %d", dbm)
		assert.Equal(t, RSSI(dbm), r)
	}
	for _, dbm := range []int8{-128, 21, 127} {
		_, err := NewRSSI(dbm)
		assert.ErrorIs(t, err, ErrConversion, "dbm %d", dbm)
	}
}

func TestMustRSSI(t *testing.T) {
	assert.Panics(t, func() { MustRSSI(21) })
	assert.Equal(t, RSSI(-42), MustRSSI(-42))
}

func TestMaybeRSSI(t *testing.T) {
	r, ok, err := MaybeRSSI(-60)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, RSSI(-60), r)

	// 127 is the reserved "unsupported" value, not an error.
	_, ok, err = MaybeRSSI(UnsupportedRSSI)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = MaybeRSSI(100)
	assert.ErrorIs(t, err, ErrConversion)
}

func TestMilliDBM(t *testing.T) {
	assert.Equal(t, MilliDBM(-100000), MustRSSI(-100).MilliDBM())
	assert.Equal(t, MilliDBM(0), MustRSSI(0).MilliDBM())
	assert.Equal(t, MilliDBM(20000), MaxRSSI.MilliDBM())
}
