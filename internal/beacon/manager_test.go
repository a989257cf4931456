package beacon

import (
	"errors"
	"testing"
	"time"

	"beacon-watch.klederson.com/internal/config"
	"beacon-watch.klederson.com/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeSource struct {
	handler func(Sighting)
	err     error
	starts  int
	stops   int
}

func (s *fakeSource) Start(handler func(Sighting)) error {
	if s.err != nil {
		return s.err
	}
	s.handler = handler
	s.starts++
	return nil
}

func (s *fakeSource) Stop() { s.stops++ }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestManager(status AuthorizationStatus, src *fakeSource) (*Manager, *clock) {
	c := &clock{t: time.Unix(5000, 0)}
	m := NewManager(NewDemoAuthority(status, "8.0", 0), src, logging.Discard())
	m.now = c.now
	return m, c
}

func drain(m *Manager) []Event {
	return m.events.take()
}

// nextEvent waits for an event queued from another goroutine.
func nextEvent(t *testing.T, m *Manager) Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case <-m.events.ready:
			if evs := m.events.take(); len(evs) > 0 {
				return evs[0]
			}
		case <-timeout:
			t.Fatal("timed out waiting for an event")
			return nil
		}
	}
}

func region() Region {
	return Region{Identifier: "MyBeacon", UUID: testUUID}
}

func TestMonitoringStarts(t *testing.T) {
	src := &fakeSource{}
	m, _ := newTestManager(AuthAuthorized, src)

	m.StartMonitoring(region())
	evs := drain(m)
	if len(evs) != 1 {
		t.Fatalf("events = %v, want one", evs)
	}
	if _, ok := evs[0].(MonitoringStartedMsg); !ok {
		t.Errorf("event = %T, want MonitoringStartedMsg", evs[0])
	}
	if src.starts != 1 {
		t.Errorf("source starts = %d, want 1", src.starts)
	}

	m.StartMonitoring(region())
	if evs := drain(m); len(evs) != 0 {
		t.Errorf("second StartMonitoring emitted %v", evs)
	}
}

func TestMonitoringFails(t *testing.T) {
	radioOff := errors.New("radio off")
	m, _ := newTestManager(AuthAuthorized, &fakeSource{err: radioOff})

	m.StartMonitoring(region())
	evs := drain(m)
	if len(evs) != 1 {
		t.Fatalf("events = %v, want one", evs)
	}
	failed, ok := evs[0].(MonitoringFailedMsg)
	if !ok {
		t.Fatalf("event = %T, want MonitoringFailedMsg", evs[0])
	}
	if !errors.Is(failed.Err, radioOff) {
		t.Errorf("err = %v, want wrapped radio off", failed.Err)
	}
}

func TestMonitoringWaitsForAuthorization(t *testing.T) {
	src := &fakeSource{}
	m, _ := newTestManager(AuthNotDetermined, src)

	m.StartMonitoring(region())
	if evs := drain(m); len(evs) != 0 {
		t.Fatalf("unauthorized monitoring emitted %v", evs)
	}

	m.RequestAlwaysAuthorization()
	ev := nextEvent(t, m)
	if _, ok := ev.(MonitoringStartedMsg); !ok {
		t.Errorf("event = %T, want MonitoringStartedMsg", ev)
	}
	m.Close()
}

func TestGrantAfterCloseDoesNotScan(t *testing.T) {
	src := &fakeSource{}
	c := &clock{t: time.Unix(5000, 0)}
	m := NewManager(NewDemoAuthority(AuthNotDetermined, "8.0", 50*time.Millisecond), src, logging.Discard())
	m.now = c.now

	m.StartMonitoring(region())
	m.RequestAlwaysAuthorization()
	m.Close()
	time.Sleep(100 * time.Millisecond)

	if src.starts != 0 {
		t.Errorf("source starts = %d after Close, want 0", src.starts)
	}
	m.StartRanging(region())
	if src.starts != 0 || m.Ranging() {
		t.Error("ranging started on a closed manager")
	}
	evs := drain(m)
	if len(evs) != 1 {
		t.Fatalf("events = %v, want one failure", evs)
	}
	if failed, ok := evs[0].(LocationFailedMsg); !ok || !errors.Is(failed.Err, ErrManagerClosed) {
		t.Errorf("event = %#v, want LocationFailedMsg with ErrManagerClosed", evs[0])
	}
}

func TestStopMonitoring(t *testing.T) {
	src := &fakeSource{}
	m, c := newTestManager(AuthAuthorized, src)
	m.StartMonitoring(region())
	drain(m)

	m.StopMonitoring(region())
	if src.stops != 1 {
		t.Errorf("source stops = %d, want 1", src.stops)
	}

	src.handler(sighting(1, 2, -60))
	m.step(c.t.Add(time.Second))
	if evs := drain(m); len(evs) != 0 {
		t.Errorf("stopped monitoring emitted %v", evs)
	}
}

func TestStopMonitoringKeepsRangingScan(t *testing.T) {
	src := &fakeSource{}
	m, _ := newTestManager(AuthAuthorized, src)
	m.StartMonitoring(region())
	m.StartRanging(region())

	m.StopMonitoring(region())
	if src.stops != 0 {
		t.Errorf("source stopped while still ranging")
	}
}

func TestEventsAreNeverDropped(t *testing.T) {
	m, _ := newTestManager(AuthAuthorized, &fakeSource{})

	n := config.EventQueueSize * 3
	for i := 0; i < n; i++ {
		m.emit(RegionEnteredMsg{Region: region()})
	}
	m.emit(RegionExitedMsg{Region: region()})

	evs := drain(m)
	if len(evs) != n+1 {
		t.Fatalf("queued %d events, want %d", len(evs), n+1)
	}
	if _, ok := evs[n].(RegionExitedMsg); !ok {
		t.Errorf("last event = %T, want RegionExitedMsg", evs[n])
	}
}

func TestAuthorizationRefused(t *testing.T) {
	m, _ := newTestManager(AuthDenied, &fakeSource{})

	m.RequestAlwaysAuthorization()
	ev := nextEvent(t, m)
	failed, ok := ev.(LocationFailedMsg)
	if !ok || !errors.Is(failed.Err, ErrNotAuthorized) {
		t.Errorf("event = %#v, want LocationFailedMsg with ErrNotAuthorized", ev)
	}
}

func TestEnterAndExit(t *testing.T) {
	src := &fakeSource{}
	m, c := newTestManager(AuthAuthorized, src)
	m.StartMonitoring(region())
	drain(m)

	m.step(c.t)
	if evs := drain(m); len(evs) != 0 {
		t.Fatalf("empty region emitted %v", evs)
	}

	src.handler(sighting(1, 2, -60))
	c.t = c.t.Add(time.Second)
	m.step(c.t)
	evs := drain(m)
	if len(evs) != 1 {
		t.Fatalf("events = %v, want one", evs)
	}
	if _, ok := evs[0].(RegionEnteredMsg); !ok {
		t.Errorf("event = %T, want RegionEnteredMsg", evs[0])
	}

	c.t = c.t.Add(time.Second)
	m.step(c.t)
	if evs := drain(m); len(evs) != 0 {
		t.Errorf("steady state emitted %v", evs)
	}

	c.t = c.t.Add(config.RegionExitTimeout)
	m.step(c.t)
	evs = drain(m)
	if len(evs) != 1 {
		t.Fatalf("events = %v, want one", evs)
	}
	if _, ok := evs[0].(RegionExitedMsg); !ok {
		t.Errorf("event = %T, want RegionExitedMsg", evs[0])
	}
}

func TestRequestState(t *testing.T) {
	src := &fakeSource{}
	m, c := newTestManager(AuthAuthorized, src)
	m.StartRanging(region())

	m.RequestState(region())
	if evs := drain(m); len(evs) != 0 {
		t.Fatalf("state answered before tick: %v", evs)
	}
	m.step(c.t)
	evs := drain(m)
	st, ok := evs[0].(StateDeterminedMsg)
	if !ok || st.State != RegionOutside {
		t.Fatalf("first event = %#v, want Outside", evs[0])
	}

	src.handler(sighting(1, 2, -60))
	m.RequestState(region())
	m.step(c.t.Add(time.Second))
	evs = drain(m)
	if st, ok := evs[0].(StateDeterminedMsg); !ok || st.State != RegionInside {
		t.Errorf("first event = %#v, want Inside", evs[0])
	}
}

func TestRanging(t *testing.T) {
	src := &fakeSource{}
	m, c := newTestManager(AuthAuthorized, src)

	m.StartRanging(region())
	m.step(c.t)
	evs := drain(m)
	if len(evs) != 1 {
		t.Fatalf("events = %v, want one", evs)
	}
	if r := evs[0].(BeaconsRangedMsg); len(r.Beacons) != 0 {
		t.Errorf("ranged %v before any sighting", r.Beacons)
	}

	src.handler(sighting(1, 2, -59))
	c.t = c.t.Add(time.Second)
	m.step(c.t)
	r := drain(m)[0].(BeaconsRangedMsg)
	if len(r.Beacons) != 1 {
		t.Fatalf("ranged %d beacons, want 1", len(r.Beacons))
	}
	b := r.Beacons[0]
	if b.Major != 1 || b.Minor != 2 || b.RSSI != -59 || b.Accuracy != 1 || b.Proximity != ProximityNear {
		t.Errorf("beacon = %+v", b)
	}

	c.t = c.t.Add(config.StaleAfter + time.Second)
	m.step(c.t)
	r = drain(m)[0].(BeaconsRangedMsg)
	if r.Beacons[0].Proximity != ProximityUnknown {
		t.Errorf("stale beacon proximity = %v, want unknown", r.Beacons[0].Proximity)
	}

	m.StopRanging(region())
	if src.stops != 1 {
		t.Errorf("source stops = %d, want 1", src.stops)
	}
	m.step(c.t)
	if evs := drain(m); len(evs) != 0 {
		t.Errorf("stopped ranging emitted %v", evs)
	}
}

func TestRangingSourceFailure(t *testing.T) {
	m, _ := newTestManager(AuthAuthorized, &fakeSource{err: errors.New("no adapter")})

	m.StartRanging(region())
	evs := drain(m)
	if len(evs) != 1 {
		t.Fatalf("events = %v, want one", evs)
	}
	if _, ok := evs[0].(LocationFailedMsg); !ok {
		t.Errorf("event = %T, want LocationFailedMsg", evs[0])
	}
	if m.Ranging() {
		t.Error("Ranging() = true after failure")
	}
}

type recordingSink struct {
	got chan tea.Msg
}

func (s recordingSink) Send(msg tea.Msg) { s.got <- msg }

func TestRunDeliversInOrder(t *testing.T) {
	m, _ := newTestManager(AuthAuthorized, &fakeSource{})
	sink := recordingSink{got: make(chan tea.Msg, 8)}
	m.Run(sink)
	defer m.Close()

	m.emit(RegionEnteredMsg{Region: region()})
	m.emit(RegionExitedMsg{Region: region()})

	for _, want := range []string{"enter", "exit"} {
		select {
		case msg := <-sink.got:
			switch msg.(type) {
			case RegionEnteredMsg:
				if want != "enter" {
					t.Errorf("got enter, want %s", want)
				}
			case RegionExitedMsg:
				if want != "exit" {
					t.Errorf("got exit, want %s", want)
				}
			default:
				t.Errorf("unexpected %T", msg)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}
