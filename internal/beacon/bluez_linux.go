//go:build linux

package beacon

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
	"golang.org/x/sys/unix"
)

const (
	bluezBusName          = "org.bluez"
	bluezAdapterInterface = "org.bluez.Adapter1"
	dbusAccessDenied      = "org.freedesktop.DBus.Error.AccessDenied"
)

// BlueZAuthority derives authorization from the BlueZ adapter over the system bus.
//
//	bus unreachable or access denied -> denied
//	adapter missing                  -> restricted
//	adapter powered off              -> not determined (Request powers it on)
//	adapter powered, root            -> authorized
//	adapter powered, unprivileged    -> authorized when in use
type BlueZAuthority struct {
	adapter string
}

// NewBlueZAuthority creates an authority for an adapter name such as "hci0".
func NewBlueZAuthority(adapter string) *BlueZAuthority {
	return &BlueZAuthority{adapter: adapter}
}

func (a *BlueZAuthority) adapterPath() dbus.ObjectPath {
	return dbus.ObjectPath("/org/bluez/" + a.adapter)
}

func (a *BlueZAuthority) powered() (bool, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return false, fmt.Errorf("connect system bus: %w", ErrNotAuthorized)
	}
	v, err := conn.Object(bluezBusName, a.adapterPath()).GetProperty(bluezAdapterInterface + ".Powered")
	if err != nil {
		if dbusErrorName(err) == dbusAccessDenied {
			return false, fmt.Errorf("read adapter state: %w", ErrNotAuthorized)
		}
		return false, fmt.Errorf("%s: %w", a.adapter, ErrNoAdapter)
	}
	on, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("unexpected Powered value %v", v)
	}
	return on, nil
}

func (a *BlueZAuthority) Status() AuthorizationStatus {
	on, err := a.powered()
	switch {
	case errors.Is(err, ErrNoAdapter):
		return AuthRestricted
	case err != nil:
		return AuthDenied
	case !on:
		return AuthNotDetermined
	case os.Geteuid() == 0:
		return AuthAuthorized
	default:
		return AuthAuthorizedWhenInUse
	}
}

// Request powers the adapter on.
func (a *BlueZAuthority) Request(ctx context.Context) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}
	call := conn.Object(bluezBusName, a.adapterPath()).CallWithContext(ctx,
		"org.freedesktop.DBus.Properties.Set", 0,
		bluezAdapterInterface, "Powered", dbus.MakeVariant(true))
	if call.Err != nil {
		return fmt.Errorf("power on %s: %w", a.adapter, call.Err)
	}
	if !a.Status().Granted() {
		return ErrNotAuthorized
	}
	return nil
}

// SystemVersion returns the kernel release, e.g. "6.8.0-45-generic".
func (a *BlueZAuthority) SystemVersion() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return ""
	}
	return unix.ByteSliceToString(u.Release[:])
}

func dbusErrorName(err error) string {
	var de dbus.Error
	if errors.As(err, &de) {
		return de.Name
	}
	var dp *dbus.Error
	if errors.As(err, &dp) {
		return dp.Name
	}
	return ""
}
