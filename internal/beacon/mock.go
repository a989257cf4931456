package beacon

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"beacon-watch.klederson.com/internal/config"
	"github.com/google/uuid"
)

type mockBeacon struct {
	major     uint16
	minor     uint16
	baseRSSI  float64
	phase     float64
	amplitude float64
	// Seconds in range, then out of range, repeating
	onFor  float64
	offFor float64
}

// MockScanner generates fake iBeacon sightings for demo mode.
type MockScanner struct {
	mu      sync.Mutex
	beacons []mockBeacon
	uuid    uuid.UUID
	cancel  context.CancelFunc
}

// NewMockScanner creates a mock scanner broadcasting beacons for the given
// proximity UUID. The first beacon drifts between immediate and far and
// periodically leaves range so region exit and entry can be seen.
func NewMockScanner(proximityUUID uuid.UUID) *MockScanner {
	return &MockScanner{
		uuid: proximityUUID,
		beacons: []mockBeacon{
			{major: 1, minor: 2, baseRSSI: -66, phase: rand.Float64() * 2 * math.Pi, amplitude: 16, onFor: 45, offFor: 20},
			{major: 1, minor: 3, baseRSSI: -80, phase: rand.Float64() * 2 * math.Pi, amplitude: 5, onFor: 25, offFor: 40},
		},
	}
}

// Start begins the mock scanner.
func (s *MockScanner) Start(handler func(Sighting)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.loop(ctx, handler)
	return nil
}

func (s *MockScanner) loop(ctx context.Context, handler func(Sighting)) {
	ticker := time.NewTicker(config.DemoEmitInterval)
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t += config.DemoEmitInterval.Seconds()
			for _, sg := range s.sightings(t) {
				handler(sg)
			}
		}
	}
}

func (s *MockScanner) sightings(t float64) []Sighting {
	var out []Sighting
	for _, b := range s.beacons {
		if math.Mod(t, b.onFor+b.offFor) >= b.onFor {
			continue
		}
		// Sinusoidal RSSI fluctuation + noise
		rssi := b.baseRSSI + b.amplitude*math.Sin(t*0.15+b.phase) + (rand.Float64()-0.5)*4

		raw := Frame{
			UUID:          s.uuid,
			Major:         b.major,
			Minor:         b.minor,
			MeasuredPower: config.DemoMeasuredPow,
		}.ManufacturerData()
		frame, err := ParseFrame(AppleCompanyID, raw)
		if err != nil {
			continue
		}
		out = append(out, Sighting{
			RSSI:  int(rssi),
			Frame: frame,
		})
	}
	return out
}

// Stop halts the mock scanner.
func (s *MockScanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
