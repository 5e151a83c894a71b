package adv

import "github.com/TimYorke/btle/pkg/bt"

// DataType is a single AD structure within an advertising payload.
type DataType interface {
	Marshal() ([]byte, error)
}

type Flags uint8

const (
	FlagsLELimitedDiscoverableMode Flags = 1 << 0
	FlagsLEGeneralDiscoverableMode Flags = 1 << 1
	FlagsBREDRNotSupported         Flags = 1 << 2
	FlagsSimultaneousLEAndBREDR    Flags = 1 << 3
)

func (f Flags) Marshal() ([]byte, error) {
	return []byte{0x02, 0x01, byte(f)}, nil
}

type CompleteLocalName string

func (l CompleteLocalName) Marshal() ([]byte, error) {
	return append([]byte{byte(len(l) + 1), 0x09}, []byte(l)...), nil
}

type ShortLocalName string

func (l ShortLocalName) Marshal() ([]byte, error) {
	return append([]byte{byte(len(l) + 1), 0x08}, []byte(l)...), nil
}

// ManufacturerData is the manufacturer-specific AD structure: a SIG company
// identifier followed by vendor-defined bytes.
type ManufacturerData struct {
	CompanyID bt.CompanyID
	Data      []byte
}

func (m ManufacturerData) Marshal() ([]byte, error) {
	buf := make([]byte, 4+len(m.Data))
	buf[0] = byte(bt.CompanyIDLen + 1 + len(m.Data))
	buf[1] = 0xFF
	if err := m.CompanyID.PackLE(buf[2:4]); err != nil {
		return nil, err
	}
	copy(buf[4:], m.Data)
	return buf, nil
}

// Pack concatenates AD structures into one advertising payload, enforcing the
// MaxDataLen PDU bound.
func Pack(data ...DataType) ([]byte, error) {
	var ads []byte
	for _, d := range data {
		ad, err := d.Marshal()
		if err != nil {
			return nil, err
		}
		ads = append(ads, ad...)
	}
	if len(ads) > MaxDataLen {
		return nil, &bt.BadLengthError{Expected: MaxDataLen, Got: len(ads)}
	}
	return ads, nil
}
