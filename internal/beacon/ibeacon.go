package beacon

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// AppleCompanyID is the Bluetooth SIG company identifier carried by iBeacon frames.
const AppleCompanyID uint16 = 0x004C

const (
	iBeaconType   = 0x02
	iBeaconLength = 0x15
	iBeaconSize   = 2 + iBeaconLength
)

// ErrNotIBeacon is returned for manufacturer data that is not an iBeacon frame.
var ErrNotIBeacon = errors.New("not an iBeacon")

// Frame is the payload of an iBeacon advertisement.
type Frame struct {
	UUID          uuid.UUID
	Major         uint16
	Minor         uint16
	MeasuredPower int8 // RSSI at 1 meter (dBm)
}

// ParseFrame decodes iBeacon manufacturer data. data excludes the company ID,
// which the BLE stack reports separately.
func ParseFrame(companyID uint16, data []byte) (Frame, error) {
	if companyID != AppleCompanyID {
		return Frame{}, ErrNotIBeacon
	}
	if len(data) < iBeaconSize || data[0] != iBeaconType || data[1] != iBeaconLength {
		return Frame{}, ErrNotIBeacon
	}

	id, err := uuid.FromBytes(data[2:18])
	if err != nil {
		return Frame{}, fmt.Errorf("decode proximity UUID: %w", err)
	}
	return Frame{
		UUID:          id,
		Major:         binary.BigEndian.Uint16(data[18:20]),
		Minor:         binary.BigEndian.Uint16(data[20:22]),
		MeasuredPower: int8(data[22]),
	}, nil
}

// ManufacturerData encodes the frame the way ParseFrame expects it.
func (f Frame) ManufacturerData() []byte {
	b := make([]byte, iBeaconSize)
	b[0] = iBeaconType
	b[1] = iBeaconLength
	copy(b[2:18], f.UUID[:])
	binary.BigEndian.PutUint16(b[18:20], f.Major)
	binary.BigEndian.PutUint16(b[20:22], f.Minor)
	b[22] = byte(f.MeasuredPower)
	return b
}

// Sighting is one received iBeacon advertisement.
type Sighting struct {
	RSSI  int
	Frame Frame
}
