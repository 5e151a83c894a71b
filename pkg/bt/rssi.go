package bt

import "fmt"

// RSSI is a received signal strength in dBm. Valid range -127 to +20 dBm.
type RSSI int8

const (
	MinRSSI RSSI = -127
	MaxRSSI RSSI = 20

	// UnsupportedRSSI is the reserved on-wire value meaning the controller
	// could not measure signal strength.
	UnsupportedRSSI int8 = 127
)

// NewRSSI returns ErrConversion if dbm is outside [-127, 20].
func NewRSSI(dbm int8) (RSSI, error) {
	if RSSI(dbm) < MinRSSI || RSSI(dbm) > MaxRSSI {
		return 0, ErrConversion
	}
	return RSSI(dbm), nil
}

// MustRSSI is NewRSSI for trusted values; it panics on out-of-range input.
func MustRSSI(dbm int8) RSSI {
	r, err := NewRSSI(dbm)
	if err != nil {
		panic(fmt.Sprintf("bt: invalid rssi %d", dbm))
	}
	return r
}

// MaybeRSSI decodes an on-wire RSSI byte. ok is false for the reserved 127
// "unsupported" value; out-of-range values return ErrConversion.
func MaybeRSSI(val int8) (rssi RSSI, ok bool, err error) {
	if val == UnsupportedRSSI {
		return 0, false, nil
	}
	r, err := NewRSSI(val)
	if err != nil {
		return 0, false, err
	}
	return r, true, nil
}

// MilliDBM returns the signal strength in milli-dBm.
func (r RSSI) MilliDBM() MilliDBM {
	return MilliDBM(int32(r) * 1000)
}

func (r RSSI) String() string {
	return fmt.Sprintf("%ddBm", int8(r))
}

// MilliDBM is a signal strength in thousandths of a dBm: -100 dBm is
// MilliDBM(-100000), 10.05 dBm is MilliDBM(10050). Unlike RSSI it is not
// range restricted.
type MilliDBM int32
