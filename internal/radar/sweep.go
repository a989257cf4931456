package radar

import (
	"math"
	"time"

	"beacon-watch.klederson.com/internal/config"
)

// Sweep manages the rotating sweep line. It only turns while ranging is active.
type Sweep struct {
	Angle float64 // Current angle in radians [0, 2π)
	last  time.Time
}

// NewSweep creates a new sweep starting at 0 degrees (north).
func NewSweep() *Sweep {
	return &Sweep{}
}

// Update advances the sweep angle by the time elapsed since the previous
// update. A stopped sweep holds its angle.
func (s *Sweep) Update(now time.Time, active bool) {
	if !s.last.IsZero() && active {
		rps := float64(config.SweepSpeedRPM) / 60.0 // rotations per second
		s.Angle = NormalizeAngle(s.Angle + now.Sub(s.last).Seconds()*rps*2*math.Pi)
	}
	s.last = now
}

// Degrees returns the current sweep angle in degrees.
func (s *Sweep) Degrees() float64 {
	return s.Angle * 180 / math.Pi
}

// Intensity returns the glow intensity [0, 1] for a given cell angle.
// The sweep has a trailing glow of SweepTrailDeg degrees.
func (s *Sweep) Intensity(cellAngle float64) float64 {
	diff := NormalizeAngle(s.Angle - cellAngle)
	trailRad := config.SweepTrailDeg * math.Pi / 180.0
	if diff > trailRad {
		return 0
	}
	// Linear falloff: 1.0 at sweep head → 0.0 at trail end
	return 1.0 - diff/trailRad
}
