package config

import "time"

const (
	// Region defaults
	DefaultProximityUUID = "00000000-362A-1001-B000-001C4D18DF9D"
	DefaultRegionID      = "MyBeacon"

	// RSSI to distance estimation
	PathLossExp = 2.5 // Path loss exponent (N)

	// Proximity buckets (meters)
	ImmediateRange = 0.5
	NearRange      = 4.0

	// Radar display
	MaxRange      = 10.0 // Maximum range in meters
	AspectRatio   = 0.5  // Terminal char aspect correction (chars are ~2:1 tall)
	SweepSpeedRPM = 30   // Sweep rotations per minute (1 rotation per 2 seconds)
	SweepTrailDeg = 60.0 // Sweep trail angle in degrees
	TargetFPS     = 30   // Target frames per second

	// Beacon tracking
	RangingInterval   = time.Second      // How often ranged beacons are reported
	StaleAfter        = 3 * time.Second  // Beacon reported with unknown proximity after this
	RegionExitTimeout = 15 * time.Second // Region counts as exited after this much silence
	BeaconTimeout     = 30 * time.Second // Remove beacons not seen for this long
	SmoothingAlpha    = 0.3              // EMA smoothing factor (30% new, 70% old)
	RSSIHistoryLen    = 120              // Samples kept for the sparkline

	// Authorization
	AuthPromptMinMajor = 8 // Host versions at or above this prompt for authorization

	// Demo mode
	DemoEmitInterval = 200 * time.Millisecond
	DemoGrantDelay   = time.Second
	DemoMeasuredPow  = -59 // RSSI at 1 meter (dBm)

	// Manager
	EventQueueSize = 64

	// App
	AppName    = "BEACON-WATCH"
	AppVersion = "1.0"
)
