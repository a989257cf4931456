package beacon

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"
)

// Source delivers iBeacon sightings from a radio or a simulation.
type Source interface {
	Start(handler func(Sighting)) error
	Stop()
}

// BLEScanner handles Bluetooth Low Energy scanning for iBeacon frames.
type BLEScanner struct {
	adapter *bluetooth.Adapter
	log     *logrus.Entry
	enabled bool
	running atomic.Bool
}

// NewBLEScanner creates a scanner on the default adapter.
func NewBLEScanner(log *logrus.Logger) *BLEScanner {
	return &BLEScanner{
		adapter: bluetooth.DefaultAdapter,
		log:     log.WithField("component", "ble-scanner"),
	}
}

// Start begins BLE scanning in a goroutine. Every iBeacon frame found in an
// advertisement is passed to handler.
func (s *BLEScanner) Start(handler func(Sighting)) error {
	if !s.enabled {
		if err := s.adapter.Enable(); err != nil {
			return fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
		}
		s.enabled = true
	}

	s.running.Store(true)
	go func() {
		err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !s.running.Load() {
				return
			}
			for _, m := range result.ManufacturerData() {
				frame, err := ParseFrame(m.CompanyID, m.Data)
				if err != nil {
					continue
				}
				handler(Sighting{
					RSSI:  int(result.RSSI),
					Frame: frame,
				})
			}
		})
		if err != nil {
			s.log.WithError(err).Warn("scan ended")
		}
	}()

	s.log.Info("scan started")
	return nil
}

// Stop halts the BLE scanner.
func (s *BLEScanner) Stop() {
	if !s.running.Swap(false) {
		return
	}
	if err := s.adapter.StopScan(); err != nil {
		s.log.WithError(err).Warn("stop scan")
	}
}
