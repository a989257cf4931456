package beacon

// Event is a location service callback. The set of implementations is closed;
// every event is also a Bubble Tea message.
type Event interface {
	event()
}

// MonitoringStartedMsg reports that a region is now monitored.
type MonitoringStartedMsg struct {
	Region Region
}

// StateDeterminedMsg answers a region state request, or reports a transition.
type StateDeterminedMsg struct {
	State  RegionState
	Region Region
}

// MonitoringFailedMsg reports that a region could not be monitored.
type MonitoringFailedMsg struct {
	Region Region
	Err    error
}

// LocationFailedMsg reports a scanner or authorization error.
type LocationFailedMsg struct {
	Err error
}

// RegionEnteredMsg reports that a monitored region was entered.
type RegionEnteredMsg struct {
	Region Region
}

// RegionExitedMsg reports that a monitored region was left.
type RegionExitedMsg struct {
	Region Region
}

// BeaconsRangedMsg carries the beacons currently in range of a ranged region.
// Delivered once per ranging interval, also when the list is empty.
type BeaconsRangedMsg struct {
	Beacons []Beacon
	Region  Region
}

func (MonitoringStartedMsg) event() {}
func (StateDeterminedMsg) event()   {}
func (MonitoringFailedMsg) event()  {}
func (LocationFailedMsg) event()    {}
func (RegionEnteredMsg) event()     {}
func (RegionExitedMsg) event()      {}
func (BeaconsRangedMsg) event()     {}
