package beacon

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Proximity is the coarse distance bucket of a ranged beacon.
type Proximity int

const (
	ProximityUnknown Proximity = iota
	ProximityImmediate
	ProximityNear
	ProximityFar
)

func (p Proximity) String() string {
	switch p {
	case ProximityImmediate:
		return "Immediate"
	case ProximityNear:
		return "Near"
	case ProximityFar:
		return "Far"
	default:
		return "Unknown Proximity"
	}
}

// RegionState tells whether the host is inside a beacon region.
type RegionState int

const (
	RegionUnknown RegionState = iota
	RegionInside
	RegionOutside
)

func (s RegionState) String() string {
	switch s {
	case RegionInside:
		return "Inside"
	case RegionOutside:
		return "Outside"
	default:
		return "Unknown"
	}
}

// AuthorizationStatus is the host's permission to use the radio for ranging.
type AuthorizationStatus int

const (
	AuthNotDetermined AuthorizationStatus = iota
	AuthRestricted
	AuthDenied
	AuthAuthorized
	AuthAuthorizedWhenInUse
)

func (a AuthorizationStatus) String() string {
	switch a {
	case AuthRestricted:
		return "restricted"
	case AuthDenied:
		return "denied"
	case AuthAuthorized:
		return "authorized"
	case AuthAuthorizedWhenInUse:
		return "when-in-use"
	default:
		return "not-determined"
	}
}

// Granted reports whether ranging may start without prompting.
func (a AuthorizationStatus) Granted() bool {
	return a == AuthAuthorized || a == AuthAuthorizedWhenInUse
}

// ParseAuthorizationStatus maps a flag value back to a status.
func ParseAuthorizationStatus(s string) (AuthorizationStatus, error) {
	for _, a := range []AuthorizationStatus{AuthNotDetermined, AuthRestricted, AuthDenied, AuthAuthorized, AuthAuthorizedWhenInUse} {
		if strings.EqualFold(s, a.String()) {
			return a, nil
		}
	}
	return AuthNotDetermined, fmt.Errorf("unknown authorization status %q", s)
}

// Region describes the beacons a monitor or ranging request is interested in.
// A nil Major or Minor matches any value.
type Region struct {
	Identifier string
	UUID       uuid.UUID
	Major      *uint16
	Minor      *uint16
}

// NewRegion creates a region matching every beacon with the given proximity UUID.
func NewRegion(proximityUUID, identifier string) (Region, error) {
	id, err := uuid.Parse(proximityUUID)
	if err != nil {
		return Region{}, fmt.Errorf("invalid proximity UUID %q: %w", proximityUUID, err)
	}
	return Region{Identifier: identifier, UUID: id}, nil
}

// WithMajor narrows the region to one major value.
func (r Region) WithMajor(major uint16) Region {
	r.Major = &major
	return r
}

// WithMinor narrows the region to one minor value.
func (r Region) WithMinor(minor uint16) Region {
	r.Minor = &minor
	return r
}

// Matches reports whether a beacon identity falls inside the region.
func (r Region) Matches(id uuid.UUID, major, minor uint16) bool {
	if id != r.UUID {
		return false
	}
	if r.Major != nil && *r.Major != major {
		return false
	}
	if r.Minor != nil && *r.Minor != minor {
		return false
	}
	return true
}

func (r Region) String() string {
	s := r.Identifier + " " + strings.ToUpper(r.UUID.String())
	if r.Major != nil {
		s += fmt.Sprintf(" major=%d", *r.Major)
	}
	if r.Minor != nil {
		s += fmt.Sprintf(" minor=%d", *r.Minor)
	}
	return s
}

// Beacon is one ranged beacon as reported to region listeners.
type Beacon struct {
	UUID      uuid.UUID
	Major     uint16
	Minor     uint16
	Proximity Proximity
	Accuracy  float64 // Meters, -1 when unknown
	RSSI      int     // dBm, 0 when unknown
}

// Key identifies a beacon independently of its readings.
func (b Beacon) Key() string {
	return fmt.Sprintf("%s/%d/%d", b.UUID, b.Major, b.Minor)
}

// Angle derives a stable radar bearing from the beacon identity.
// Returns radians in [0, 2π), where 0=north, increasing clockwise.
func (b Beacon) Angle() float64 {
	h := sha256.Sum256([]byte(b.Key()))
	val := binary.BigEndian.Uint32(h[:4])
	return float64(val) / float64(math.MaxUint32) * 2 * math.Pi
}
