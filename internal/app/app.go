package app

import (
	"time"

	"beacon-watch.klederson.com/internal/beacon"
	"beacon-watch.klederson.com/internal/config"
	"beacon-watch.klederson.com/internal/radar"
	"beacon-watch.klederson.com/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Options configures the app from the command line.
type Options struct {
	Demo        bool
	Adapter     string
	Region      beacon.Region
	Monitor     bool
	MaxRange    float64
	DemoAuth    beacon.AuthorizationStatus
	DemoVersion string
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	manager *beacon.Manager
	ctrl    *Controller
	sweep   *radar.Sweep
	history *RSSIRing
}

// AppModel is the root Bubble Tea model for the beacon watcher.
type AppModel struct {
	width  int
	height int

	adapter  string
	maxRange float64
	auth     beacon.AuthorizationStatus

	shared *shared
}

// New creates a new AppModel with a real or demo location service.
func New(opts Options, log *logrus.Logger) AppModel {
	var (
		authority beacon.Authority
		source    beacon.Source
	)
	if opts.Demo {
		authority = beacon.NewDemoAuthority(opts.DemoAuth, opts.DemoVersion, config.DemoGrantDelay)
		source = beacon.NewMockScanner(opts.Region.UUID)
	} else {
		authority = beacon.NewBlueZAuthority(opts.Adapter)
		source = beacon.NewBLEScanner(log)
	}
	return newModel(beacon.NewManager(authority, source, log), opts, log)
}

func newModel(manager *beacon.Manager, opts Options, log *logrus.Logger) AppModel {
	maxRange := opts.MaxRange
	if maxRange <= 0 {
		maxRange = config.MaxRange
	}
	return AppModel{
		adapter:  opts.Adapter,
		maxRange: maxRange,
		shared: &shared{
			manager: manager,
			ctrl:    NewController(manager, opts.Region, opts.Monitor, log),
			sweep:   radar.NewSweep(),
			history: NewRSSIRing(config.RSSIHistoryLen),
		},
	}
}

// Start begins delivering location events to p. Must be called before p.Run().
func (m *AppModel) Start(p *tea.Program) {
	m.shared.manager.Run(p)
}

// Stop releases the region and shuts the location service down. Call it
// after p.Run returns.
func (m *AppModel) Stop() {
	m.shared.ctrl.Unload()
	m.shared.manager.Close()
}

// Controller exposes the screen controller.
func (m AppModel) Controller() *Controller {
	return m.shared.ctrl
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		func() tea.Msg { return LoadMsg{} },
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.shared.sweep.Update(time.Time(msg), m.shared.manager.Ranging())
		return m, tickCmd()

	case LoadMsg:
		m.auth = m.shared.manager.AuthorizationStatus()
		m.shared.ctrl.Load()
		return m, nil

	case beacon.Event:
		m.shared.ctrl.Handle(msg)
		if _, ok := msg.(beacon.BeaconsRangedMsg); ok {
			if b, shown := m.shared.ctrl.Current(); shown {
				m.shared.history.Push(float64(b.RSSI))
			}
		}
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		// Stop runs after p.Run returns; the event pump may be blocked on Send now.
		return m, tea.Quit

	case "r", "R":
		m.shared.ctrl.Reset()
		m.shared.history.Reset()
	}

	return m, nil
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}

	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 5 {
		bodyH = 5
	}

	radarW := m.width / 2
	if radarW < 30 {
		radarW = 30
	}
	panelW := m.width - radarW
	if panelW < 30 {
		panelW = 30
		radarW = m.width - panelW
	}

	ctrl := m.shared.ctrl
	ranging := m.shared.manager.Ranging()
	menuBar := ui.RenderMenuBar(m.width, ctrl.Region().Identifier, m.adapter, ranging)

	innerW := radarW - 4
	innerH := bodyH - 5
	if innerW < 5 {
		innerW = 5
	}
	if innerH < 3 {
		innerH = 3
	}
	var target *beacon.Beacon
	if b, ok := ctrl.Current(); ok {
		target = &b
	}
	radarContent := radar.Render(innerW, innerH, target, m.maxRange, m.shared.sweep)
	radarPanel := ui.RenderRadarPanel(radarW, bodyH, radarContent, radar.RenderLegend(innerW, m.maxRange))

	d := ctrl.Display()
	beaconPanel := ui.RenderBeaconPanel(displayFields(d), panelW, bodyH, m.shared.history.Values())

	statusBar := ui.RenderStatusBar(m.width, d.Status, ranging, m.auth.String(),
		m.shared.manager.Tracker().Count(), m.shared.sweep.Degrees(), m.maxRange)

	return ui.ComposeLayout(menuBar, radarPanel, beaconPanel, statusBar)
}

func displayFields(d Display) []ui.Field {
	fields := []ui.Field{
		{Label: "Status", Value: d.Status},
		{Label: "Distance", Value: d.Distance},
		{Label: "UUID", Value: d.UUID},
		{Label: "Major", Value: d.Major},
		{Label: "Minor", Value: d.Minor},
		{Label: "Accuracy", Value: d.Accuracy},
		{Label: "RSSI", Value: d.RSSI},
	}
	for i := range fields {
		fields[i].Dimmed = fields[i].Value == None
	}
	return fields
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
