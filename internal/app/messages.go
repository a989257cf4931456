package app

import "time"

// TickMsg triggers a frame update for animation.
type TickMsg time.Time

// LoadMsg runs the controller's load step on the Update goroutine, so every
// label write happens in the same place.
type LoadMsg struct{}
