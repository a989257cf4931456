package beacon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"beacon-watch.klederson.com/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Sink receives location events. *tea.Program satisfies it.
type Sink interface {
	Send(msg tea.Msg)
}

// queue is an unbounded FIFO of events. Pushing never blocks, so events can
// be queued while mu is held.
type queue struct {
	mu    sync.Mutex
	items []Event
	ready chan struct{}
}

func newQueue() *queue {
	return &queue{
		items: make([]Event, 0, config.EventQueueSize),
		ready: make(chan struct{}, 1),
	}
}

func (q *queue) push(ev Event) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// take removes and returns everything queued so far.
func (q *queue) take() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

type monitor struct {
	region  Region
	state   RegionState
	started bool
}

// Manager monitors beacon regions and ranges the beacons inside them. It
// drives a Source, keeps a Tracker of what the Source hears and reports
// region transitions and ranging results as Events.
//
// Events are queued and delivered in order by a single goroutine, so methods
// may be called from inside a Bubble Tea Update without deadlocking.
type Manager struct {
	mu        sync.Mutex
	authority Authority
	source    Source
	tracker   *Tracker
	log       *logrus.Entry

	monitors  map[string]*monitor
	ranging   map[string]Region
	requested map[string]Region
	scanning  bool
	closed    bool

	events *queue
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	now    func() time.Time
}

// NewManager creates a manager. Call Run to begin delivering events.
func NewManager(authority Authority, source Source, log *logrus.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		authority: authority,
		source:    source,
		tracker:   NewTracker(),
		log:       log.WithField("component", "manager"),
		monitors:  make(map[string]*monitor),
		ranging:   make(map[string]Region),
		requested: make(map[string]Region),
		events:    newQueue(),
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
}

// Run starts the ranging clock and the event pump. Events go to sink until
// Close is called.
func (m *Manager) Run(sink Sink) {
	ctx := m.ctx

	m.wg.Add(2)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.events.ready:
				for _, ev := range m.events.take() {
					sink.Send(ev)
				}
			}
		}
	}()
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(config.RangingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.step(m.now())
			}
		}
	}()
}

// Close stops scanning and event delivery, and abandons a pending
// authorization request. Scanning cannot be restarted afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.stopScanning()
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
}

// Tracker exposes the beacons heard so far.
func (m *Manager) Tracker() *Tracker {
	return m.tracker
}

// AuthorizationStatus reads the current status from the authority.
func (m *Manager) AuthorizationStatus() AuthorizationStatus {
	return m.authority.Status()
}

// SystemVersion reports the host version used to decide whether to prompt.
func (m *Manager) SystemVersion() string {
	return m.authority.SystemVersion()
}

// RequestAlwaysAuthorization asks the authority for access without blocking.
// When access is granted, regions whose monitoring was waiting on it start.
func (m *Manager) RequestAlwaysAuthorization() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(m.ctx, 30*time.Second)
		defer cancel()

		if err := m.authority.Request(ctx); err != nil {
			if m.ctx.Err() != nil {
				return
			}
			m.log.WithError(err).Warn("authorization request failed")
			m.emit(LocationFailedMsg{Err: fmt.Errorf("request authorization: %w", err)})
			return
		}
		m.log.Info("authorization granted")

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed {
			return
		}
		for _, mon := range m.monitors {
			if !mon.started {
				m.startMonitorLocked(mon)
			}
		}
	}()
}

// StartMonitoring begins watching a region for entry and exit. Without
// authorization the region waits until RequestAlwaysAuthorization succeeds.
func (m *Manager) StartMonitoring(r Region) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mon, ok := m.monitors[r.Identifier]
	if !ok {
		mon = &monitor{region: r}
		m.monitors[r.Identifier] = mon
	}
	if mon.started {
		return
	}
	if !m.authority.Status().Granted() {
		m.log.WithField("region", r.Identifier).Info("monitoring deferred until authorized")
		return
	}
	m.startMonitorLocked(mon)
}

func (m *Manager) startMonitorLocked(mon *monitor) {
	if err := m.startScanning(); err != nil {
		delete(m.monitors, mon.region.Identifier)
		m.emit(MonitoringFailedMsg{Region: mon.region, Err: err})
		return
	}
	mon.started = true
	mon.state = RegionUnknown
	m.emit(MonitoringStartedMsg{Region: mon.region})
}

// StopMonitoring stops watching a region. Scanning stops once nothing is
// monitored or ranged.
func (m *Manager) StopMonitoring(r Region) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.monitors, r.Identifier)
	m.stopScanningIfIdle()
}

// RequestState asks for the region's state. The answer arrives as a
// StateDeterminedMsg on the next tick.
func (m *Manager) RequestState(r Region) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested[r.Identifier] = r
}

// StartRanging begins reporting the beacons in range of a region.
func (m *Manager) StartRanging(r Region) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.startScanning(); err != nil {
		m.emit(LocationFailedMsg{Err: err})
		return
	}
	if _, ok := m.ranging[r.Identifier]; !ok {
		m.log.WithField("region", r.Identifier).Info("ranging started")
	}
	m.ranging[r.Identifier] = r
}

// StopRanging stops reporting beacons for a region.
func (m *Manager) StopRanging(r Region) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ranging[r.Identifier]; ok {
		m.log.WithField("region", r.Identifier).Info("ranging stopped")
	}
	delete(m.ranging, r.Identifier)
	m.stopScanningIfIdle()
}

// Ranging reports whether any region is being ranged.
func (m *Manager) Ranging() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ranging) > 0
}

func (m *Manager) startScanning() error {
	if m.closed {
		return ErrManagerClosed
	}
	if m.scanning {
		return nil
	}
	if err := m.source.Start(m.observe); err != nil {
		return fmt.Errorf("start scanning: %w", err)
	}
	m.scanning = true
	return nil
}

func (m *Manager) stopScanningIfIdle() {
	if len(m.ranging) > 0 {
		return
	}
	for _, mon := range m.monitors {
		if mon.started {
			return
		}
	}
	m.stopScanning()
}

func (m *Manager) stopScanning() {
	if !m.scanning {
		return
	}
	m.source.Stop()
	m.scanning = false
}

func (m *Manager) observe(s Sighting) {
	m.tracker.Observe(s, m.now())
}

// step advances the manager by one ranging interval.
func (m *Manager) step(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n := m.tracker.Evict(config.BeaconTimeout, now); n > 0 {
		m.log.WithField("count", n).Debug("evicted beacons")
	}

	for _, mon := range m.monitors {
		if !mon.started {
			continue
		}
		state := m.stateOf(mon.region, now)
		switch {
		case state == RegionInside && mon.state != RegionInside:
			m.emit(RegionEnteredMsg{Region: mon.region})
		case state == RegionOutside && mon.state == RegionInside:
			m.emit(RegionExitedMsg{Region: mon.region})
		}
		mon.state = state
	}

	for id, r := range m.requested {
		m.emit(StateDeterminedMsg{State: m.stateOf(r, now), Region: r})
		delete(m.requested, id)
	}

	for _, r := range m.ranging {
		m.emit(BeaconsRangedMsg{Beacons: m.tracker.Range(r, now), Region: r})
	}
}

func (m *Manager) stateOf(r Region, now time.Time) RegionState {
	if m.tracker.Heard(r, now.Add(-config.RegionExitTimeout)) {
		return RegionInside
	}
	return RegionOutside
}

func (m *Manager) emit(ev Event) {
	m.events.push(ev)
}
