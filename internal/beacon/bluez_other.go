//go:build !linux

package beacon

import (
	"context"
	"runtime"
)

// BlueZAuthority outside Linux leaves permission handling to the OS
// Bluetooth stack, which prompts on first use.
type BlueZAuthority struct {
	adapter string
}

// NewBlueZAuthority creates an authority for an adapter name.
func NewBlueZAuthority(adapter string) *BlueZAuthority {
	return &BlueZAuthority{adapter: adapter}
}

func (a *BlueZAuthority) Status() AuthorizationStatus {
	return AuthAuthorized
}

func (a *BlueZAuthority) Request(ctx context.Context) error {
	return ctx.Err()
}

func (a *BlueZAuthority) SystemVersion() string {
	return runtime.GOOS
}
