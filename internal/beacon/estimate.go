package beacon

import (
	"math"

	"beacon-watch.klederson.com/internal/config"
)

// Accuracy estimates distance from RSSI using the log-distance path loss model.
// Formula: d = 10^((measuredPower - rssi) / (10 * n)), rounded to centimeters.
// Returns -1 when there is no reading.
func Accuracy(rssi, measuredPower, pathLossExp float64) float64 {
	if rssi >= 0 {
		return -1
	}
	d := math.Pow(10, (measuredPower-rssi)/(10*pathLossExp))
	if d < 0.01 {
		d = 0.01
	}
	return math.Round(d*100) / 100
}

// ProximityFor buckets an accuracy estimate.
func ProximityFor(accuracy float64) Proximity {
	switch {
	case accuracy < 0:
		return ProximityUnknown
	case accuracy < config.ImmediateRange:
		return ProximityImmediate
	case accuracy < config.NearRange:
		return ProximityNear
	default:
		return ProximityFar
	}
}
