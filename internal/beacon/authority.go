package beacon

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotAuthorized is returned when radio access was not granted.
	ErrNotAuthorized = errors.New("bluetooth access not authorized")
	// ErrNoAdapter is returned when the configured adapter does not exist.
	ErrNoAdapter = errors.New("bluetooth adapter not found")
	// ErrManagerClosed is returned when scanning is requested after Close.
	ErrManagerClosed = errors.New("location manager closed")
)

// Authority answers whether this process may use the radio, and can ask for
// that permission.
type Authority interface {
	Status() AuthorizationStatus
	Request(ctx context.Context) error
	SystemVersion() string
}

// DemoAuthority is a fixed authorization state for demo mode. A request is
// granted after a short delay, the way an interactive prompt would be.
type DemoAuthority struct {
	mu      sync.Mutex
	status  AuthorizationStatus
	version string
	delay   time.Duration
}

// NewDemoAuthority creates an authority reporting status and version.
func NewDemoAuthority(status AuthorizationStatus, version string, delay time.Duration) *DemoAuthority {
	return &DemoAuthority{status: status, version: version, delay: delay}
}

func (a *DemoAuthority) Status() AuthorizationStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *DemoAuthority) SystemVersion() string {
	return a.version
}

// Request grants access unless the status is restricted or denied.
func (a *DemoAuthority) Request(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(a.delay):
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.status {
	case AuthRestricted, AuthDenied:
		return ErrNotAuthorized
	case AuthNotDetermined:
		a.status = AuthAuthorized
	}
	return nil
}
