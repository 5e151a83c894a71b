package bt

import "encoding/binary"

// CompanyID is a 16-bit Bluetooth SIG assigned company identifier.
// https://www.bluetooth.com/specifications/assigned-numbers/company-identifiers/
type CompanyID uint16

// CompanyIDLen is the wire width of a CompanyID in bytes.
const CompanyIDLen = 2

// PackLE encodes the id little-endian into buf, which must be 2 bytes.
func (c CompanyID) PackLE(buf []byte) error {
	if err := ExpectLen(CompanyIDLen, buf); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(buf, uint16(c))
	return nil
}

// PackBE encodes the id big-endian into buf, which must be 2 bytes.
func (c CompanyID) PackBE(buf []byte) error {
	if err := ExpectLen(CompanyIDLen, buf); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(buf, uint16(c))
	return nil
}

// UnpackCompanyIDLE decodes a little-endian CompanyID from exactly 2 bytes.
func UnpackCompanyIDLE(buf []byte) (CompanyID, error) {
	if err := ExpectLen(CompanyIDLen, buf); err != nil {
		return 0, err
	}
	return CompanyID(binary.LittleEndian.Uint16(buf)), nil
}

// UnpackCompanyIDBE decodes a big-endian CompanyID from exactly 2 bytes.
func UnpackCompanyIDBE(buf []byte) (CompanyID, error) {
	if err := ExpectLen(CompanyIDLen, buf); err != nil {
		return 0, err
	}
	return CompanyID(binary.BigEndian.Uint16(buf)), nil
}
