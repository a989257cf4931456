package radar

import (
	"math"
	"strings"
	"testing"
	"time"

	"beacon-watch.klederson.com/internal/beacon"
	"github.com/google/uuid"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMetersToRadius(t *testing.T) {
	tests := []struct{ meters, want float64 }{
		{5, 10},
		{0, 0},
		{50, 20},
		{-1, 20},
	}
	for _, tt := range tests {
		if got := MetersToRadius(tt.meters, 10, 20); got != tt.want {
			t.Errorf("MetersToRadius(%v) = %v, want %v", tt.meters, got, tt.want)
		}
	}
}

func TestCellAngleNorthIsZero(t *testing.T) {
	if got := CellAngle(10, 2, 10, 10); got != 0 {
		t.Errorf("north cell angle = %v, want 0", got)
	}
	if got := CellAngle(15, 10, 10, 10); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("east cell angle = %v, want π/2", got)
	}
}

func TestSweepHoldsWhenIdle(t *testing.T) {
	s := NewSweep()
	t0 := time.Unix(0, 0)
	s.Update(t0, true)
	s.Update(t0.Add(500*time.Millisecond), true)
	moved := s.Angle
	if moved <= 0 {
		t.Fatalf("sweep did not move while active")
	}
	s.Update(t0.Add(time.Second), false)
	if s.Angle != moved {
		t.Errorf("sweep moved while idle")
	}
	if s.Intensity(s.Angle) != 1 {
		t.Errorf("intensity at sweep head = %v, want 1", s.Intensity(s.Angle))
	}
}

func TestRenderPlacesBeacon(t *testing.T) {
	b := beacon.Beacon{UUID: uuid.New(), Major: 1, Minor: 2, Proximity: beacon.ProximityNear, Accuracy: 2}
	out := Render(40, 15, &b, 10, NewSweep())
	lines := strings.Split(out, "\n")
	if len(lines) != 15 {
		t.Fatalf("rendered %d lines, want 15", len(lines))
	}
	if !strings.Contains(out, "@") || !strings.Contains(out, "1/2") {
		t.Errorf("beacon glyph or label missing:\n%s", out)
	}

	empty := Render(40, 15, nil, 10, NewSweep())
	if strings.Contains(empty, "@") {
		t.Errorf("glyph drawn without a beacon")
	}
	if Render(5, 3, nil, 10, NewSweep()) != "" {
		t.Errorf("tiny radar should render empty")
	}
}
