package beacon

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestParseFrame(t *testing.T) {
	// Captured advertisement, company ID stripped
	raw, err := hex.DecodeString("021500000000362a1001b000001c4d18df9d00010002c5")
	if err != nil {
		t.Fatal(err)
	}

	f, err := ParseFrame(AppleCompanyID, raw)
	if err != nil {
		t.Fatalf("ParseFrame() failed: %v", err)
	}
	if f.UUID != uuid.MustParse("00000000-362A-1001-B000-001C4D18DF9D") {
		t.Errorf("UUID = %s", f.UUID)
	}
	if f.Major != 1 || f.Minor != 2 {
		t.Errorf("major/minor = %d/%d, want 1/2", f.Major, f.Minor)
	}
	if f.MeasuredPower != -59 {
		t.Errorf("measured power = %d, want -59", f.MeasuredPower)
	}
}

func TestParseFrameRejects(t *testing.T) {
	good := Frame{UUID: uuid.New(), Major: 3, Minor: 4, MeasuredPower: -60}.ManufacturerData()

	tests := []struct {
		name    string
		company uint16
		data    []byte
	}{
		{"other company", 0x0075, good},
		{"short", AppleCompanyID, good[:10]},
		{"wrong type", AppleCompanyID, append([]byte{0x10}, good[1:]...)},
		{"wrong length byte", AppleCompanyID, append([]byte{0x02, 0x16}, good[2:]...)},
		{"empty", AppleCompanyID, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFrame(tt.company, tt.data); !errors.Is(err, ErrNotIBeacon) {
				t.Errorf("err = %v, want ErrNotIBeacon", err)
			}
		})
	}
}

func TestFrameEncodeMatchesParse(t *testing.T) {
	want := Frame{UUID: uuid.New(), Major: 0xBEEF, Minor: 0x0102, MeasuredPower: -72}
	got, err := ParseFrame(AppleCompanyID, want.ManufacturerData())
	if err != nil {
		t.Fatalf("ParseFrame() failed: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
