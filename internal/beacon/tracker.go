package beacon

import (
	"math"
	"sort"
	"sync"
	"time"

	"beacon-watch.klederson.com/internal/config"
)

type tracked struct {
	frame     Frame
	rssi      float64
	firstSeen time.Time
	lastSeen  time.Time
}

// Tracker is a thread-safe store of recently heard beacons.
type Tracker struct {
	mu      sync.RWMutex
	beacons map[string]*tracked
}

// NewTracker creates a new empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		beacons: make(map[string]*tracked),
	}
}

func frameKey(f Frame) string {
	return Beacon{UUID: f.UUID, Major: f.Major, Minor: f.Minor}.Key()
}

// Observe records a sighting. If the beacon is already tracked, RSSI is
// smoothed using EMA.
func (t *Tracker) Observe(s Sighting, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := frameKey(s.Frame)
	if existing, ok := t.beacons[key]; ok {
		// A stale beacon starts over instead of averaging against old readings
		if now.Sub(existing.lastSeen) > config.StaleAfter {
			existing.rssi = float64(s.RSSI)
		} else {
			existing.rssi = existing.rssi*(1-config.SmoothingAlpha) + float64(s.RSSI)*config.SmoothingAlpha
		}
		existing.frame = s.Frame
		existing.lastSeen = now
		return
	}

	t.beacons[key] = &tracked{
		frame:     s.Frame,
		rssi:      float64(s.RSSI),
		firstSeen: now,
		lastSeen:  now,
	}
}

// Evict removes beacons not seen within the timeout duration.
// Returns the number of evicted beacons.
func (t *Tracker) Evict(timeout time.Duration, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := now.Add(-timeout)
	count := 0
	for key, b := range t.beacons {
		if b.lastSeen.Before(cutoff) {
			delete(t.beacons, key)
			count++
		}
	}
	return count
}

// Heard reports whether any beacon of the region was seen after since.
func (t *Tracker) Heard(r Region, since time.Time) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, b := range t.beacons {
		if r.Matches(b.frame.UUID, b.frame.Major, b.frame.Minor) && b.lastSeen.After(since) {
			return true
		}
	}
	return false
}

// Range returns the region's beacons in first-seen order. Beacons silent for
// longer than config.StaleAfter are reported with unknown proximity.
func (t *Tracker) Range(r Region, now time.Time) []Beacon {
	t.mu.RLock()
	defer t.mu.RUnlock()

	matched := make([]*tracked, 0, len(t.beacons))
	for _, b := range t.beacons {
		if r.Matches(b.frame.UUID, b.frame.Major, b.frame.Minor) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].firstSeen.Equal(matched[j].firstSeen) {
			return frameKey(matched[i].frame) < frameKey(matched[j].frame)
		}
		return matched[i].firstSeen.Before(matched[j].firstSeen)
	})

	result := make([]Beacon, 0, len(matched))
	for _, b := range matched {
		bc := Beacon{
			UUID:     b.frame.UUID,
			Major:    b.frame.Major,
			Minor:    b.frame.Minor,
			Accuracy: -1,
		}
		if now.Sub(b.lastSeen) <= config.StaleAfter {
			bc.RSSI = int(math.Round(b.rssi))
			bc.Accuracy = Accuracy(b.rssi, float64(b.frame.MeasuredPower), config.PathLossExp)
		}
		bc.Proximity = ProximityFor(bc.Accuracy)
		result = append(result, bc)
	}
	return result
}

// Count returns the total number of tracked beacons.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.beacons)
}
