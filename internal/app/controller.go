package app

import (
	"strconv"
	"strings"
	"unicode"

	"beacon-watch.klederson.com/internal/beacon"
	"beacon-watch.klederson.com/internal/config"
	"github.com/sirupsen/logrus"
)

// Status label texts.
const (
	StatusStarting       = "Starting Monitor"
	StatusStartingPrompt = "Starting Monitor(A)"
	StatusRestricted     = "Restrict Monitor"
	StatusScanning       = "Scanning..."
	StatusError          = "Error :("
	StatusPossibleMatch  = "Possible Match"
	StatusOK             = "OK"
	None                 = "none"
)

// LocationService is what the controller needs from the beacon manager.
type LocationService interface {
	AuthorizationStatus() beacon.AuthorizationStatus
	SystemVersion() string
	RequestAlwaysAuthorization()
	StartMonitoring(r beacon.Region)
	StopMonitoring(r beacon.Region)
	RequestState(r beacon.Region)
	StartRanging(r beacon.Region)
	StopRanging(r beacon.Region)
}

// Display holds the text of every on-screen label.
type Display struct {
	Status   string
	Distance string
	UUID     string
	Major    string
	Minor    string
	Accuracy string
	RSSI     string
}

// Controller turns location events into label text for a single region.
//
// It keeps the simplifications of the screen it models: only the first
// ranged beacon is shown, a monitoring failure is not retried, and the
// authorization prompt's answer is not re-checked.
type Controller struct {
	svc     LocationService
	region  beacon.Region
	monitor bool
	log     *logrus.Entry

	display Display
	current *beacon.Beacon
}

// NewController creates a controller for region. With monitor set, region
// monitoring is started on load alongside ranging.
func NewController(svc LocationService, region beacon.Region, monitor bool, log *logrus.Logger) *Controller {
	return &Controller{
		svc:     svc,
		region:  region,
		monitor: monitor,
		log:     log.WithField("component", "controller"),
		display: Display{
			Status:   None,
			Distance: None,
			UUID:     None,
			Major:    None,
			Minor:    None,
			Accuracy: None,
			RSSI:     None,
		},
	}
}

// Display returns a copy of the current labels.
func (c *Controller) Display() Display {
	return c.display
}

// Current returns the beacon shown in the labels, if any.
func (c *Controller) Current() (beacon.Beacon, bool) {
	if c.current == nil {
		return beacon.Beacon{}, false
	}
	return *c.current, true
}

// Region returns the region the controller watches.
func (c *Controller) Region() beacon.Region {
	return c.region
}

// Load branches on the authorization status and starts ranging, asks for
// authorization or gives up.
func (c *Controller) Load() {
	status := c.svc.AuthorizationStatus()
	c.log.WithField("authorization", status).Info("load")

	switch status {
	case beacon.AuthAuthorized, beacon.AuthAuthorizedWhenInUse:
		c.display.Status = StatusStarting
		c.svc.StartRanging(c.region)
		c.startMonitoring()

	case beacon.AuthNotDetermined:
		c.display.Status = StatusStartingPrompt
		version := c.svc.SystemVersion()
		if majorVersion(version) >= config.AuthPromptMinMajor {
			c.log.WithField("version", version).Info("requesting authorization")
			c.svc.RequestAlwaysAuthorization()
		} else {
			c.svc.StartRanging(c.region)
		}
		c.startMonitoring()

	case beacon.AuthRestricted, beacon.AuthDenied:
		c.display.Status = StatusRestricted
	}
}

func (c *Controller) startMonitoring() {
	if c.monitor {
		c.svc.StartMonitoring(c.region)
	}
}

// Unload stops ranging and monitoring the region when the screen goes away.
func (c *Controller) Unload() {
	c.svc.StopRanging(c.region)
	if c.monitor {
		c.svc.StopMonitoring(c.region)
	}
}

// Handle applies one location event to the labels.
func (c *Controller) Handle(ev beacon.Event) {
	switch ev := ev.(type) {
	case beacon.MonitoringStartedMsg:
		c.svc.RequestState(ev.Region)
		c.display.Status = StatusScanning

	case beacon.StateDeterminedMsg:
		if ev.State == beacon.RegionInside {
			c.svc.StartRanging(ev.Region)
		}

	case beacon.MonitoringFailedMsg:
		// TODO: retry after a short delay; toggling Bluetooth or airplane mode causes this.
		c.log.WithError(ev.Err).WithField("region", ev.Region.Identifier).Error("monitoring failed")
		c.display.Status = StatusError

	case beacon.LocationFailedMsg:
		c.log.WithError(ev.Err).Error("location failure")

	case beacon.RegionEnteredMsg:
		c.svc.StartRanging(ev.Region)
		c.display.Status = StatusPossibleMatch

	case beacon.RegionExitedMsg:
		c.svc.StopRanging(ev.Region)
		c.Reset()

	case beacon.BeaconsRangedMsg:
		c.ranged(ev.Beacons)
	}
}

func (c *Controller) ranged(beacons []beacon.Beacon) {
	c.log.WithField("beacons", len(beacons)).Debug("ranged")
	if len(beacons) == 0 {
		return
	}
	b := beacons[0]

	c.display.Distance = b.Proximity.String()
	if b.Proximity == beacon.ProximityUnknown {
		c.Reset()
		return
	}
	c.display.Status = StatusOK
	c.display.UUID = strings.ToUpper(b.UUID.String())
	c.display.Major = strconv.Itoa(int(b.Major))
	c.display.Minor = strconv.Itoa(int(b.Minor))
	c.display.Accuracy = FormatAccuracy(b.Accuracy)
	c.display.RSSI = strconv.Itoa(b.RSSI)
	c.current = &b
}

// Reset sets the status and beacon labels to "none". Distance is left as is.
func (c *Controller) Reset() {
	c.display.Status = None
	c.display.UUID = None
	c.display.Major = None
	c.display.Minor = None
	c.display.Accuracy = None
	c.display.RSSI = None
	c.current = nil
}

// FormatAccuracy renders meters with the shortest exact digits and always a
// fractional part: 3.5 -> "3.5", 2 -> "2.0", -1 -> "-1.0".
func FormatAccuracy(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// majorVersion returns the leading number of a version string such as
// "8.1" or "6.8.0-45-generic", or 0 if there is none.
func majorVersion(v string) int {
	end := strings.IndexFunc(v, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(v)
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}
