package beacon

import (
	"testing"

	"beacon-watch.klederson.com/internal/config"
	"github.com/google/uuid"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		rssi, power float64
		want        float64
	}{
		{-59, -59, 1},
		{-84, -59, 10},
		{-40, -59, 0.17},
		{0, -59, -1},
		{5, -59, -1},
	}
	for _, tt := range tests {
		if got := Accuracy(tt.rssi, tt.power, config.PathLossExp); got != tt.want {
			t.Errorf("Accuracy(%v, %v) = %v, want %v", tt.rssi, tt.power, got, tt.want)
		}
	}
}

func TestProximityFor(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     Proximity
	}{
		{-1, ProximityUnknown},
		{0.01, ProximityImmediate},
		{0.49, ProximityImmediate},
		{0.5, ProximityNear},
		{3.99, ProximityNear},
		{4, ProximityFar},
		{25, ProximityFar},
	}
	for _, tt := range tests {
		if got := ProximityFor(tt.accuracy); got != tt.want {
			t.Errorf("ProximityFor(%v) = %v, want %v", tt.accuracy, got, tt.want)
		}
	}
}

func TestRegionMatches(t *testing.T) {
	id := uuid.MustParse("00000000-362A-1001-B000-001C4D18DF9D")
	r, err := NewRegion(id.String(), "MyBeacon")
	if err != nil {
		t.Fatalf("NewRegion() failed: %v", err)
	}

	if !r.Matches(id, 1, 2) {
		t.Error("open region did not match")
	}
	if r.Matches(uuid.New(), 1, 2) {
		t.Error("region matched another UUID")
	}
	narrow := r.WithMajor(1).WithMinor(2)
	if !narrow.Matches(id, 1, 2) || narrow.Matches(id, 1, 3) || narrow.Matches(id, 2, 2) {
		t.Error("major/minor narrowing wrong")
	}
	if r.Major != nil {
		t.Error("WithMajor modified the original region")
	}

	if _, err := NewRegion("not-a-uuid", "x"); err == nil {
		t.Error("NewRegion accepted an invalid UUID")
	}
}

func TestParseAuthorizationStatus(t *testing.T) {
	for _, a := range []AuthorizationStatus{AuthNotDetermined, AuthRestricted, AuthDenied, AuthAuthorized, AuthAuthorizedWhenInUse} {
		got, err := ParseAuthorizationStatus(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAuthorizationStatus(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAuthorizationStatus("maybe"); err == nil {
		t.Error("accepted unknown status")
	}
}

func TestBeaconAngleStable(t *testing.T) {
	b := Beacon{UUID: uuid.New(), Major: 1, Minor: 2}
	a := b.Angle()
	if a < 0 || a >= 6.2832 {
		t.Errorf("angle %v out of range", a)
	}
	b.RSSI = -40
	if b.Angle() != a {
		t.Error("angle depends on readings")
	}
}
