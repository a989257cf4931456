package radar

import (
	"math"

	"beacon-watch.klederson.com/internal/config"
)

// CellDistance computes the distance from a cell to the radar center,
// accounting for terminal aspect ratio.
func CellDistance(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return math.Sqrt(dx*dx + dy*dy)
}

// CellAngle computes the angle from center to a cell.
// Returns radians in [0, 2π), where 0=north, increasing clockwise.
func CellAngle(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return NormalizeAngle(math.Atan2(dx, -dy))
}

// RingChar returns the character drawing a ring at the given angle.
func RingChar(angle float64) rune {
	chars := []rune{'-', '/', '|', '\\', '-', '/', '|', '\\'}
	sector := int(math.Round(NormalizeAngle(angle)/(math.Pi/4))) % 8
	return chars[sector]
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// MetersToRadius converts distance in meters to radar cells, clamped to the
// outer ring. Unknown (negative) distances map to the outer ring as well.
func MetersToRadius(meters, maxRange, radarRadius float64) float64 {
	if meters < 0 || meters > maxRange {
		return radarRadius
	}
	return (meters / maxRange) * radarRadius
}
