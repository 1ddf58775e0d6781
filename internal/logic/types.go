// Package logic contains the decision core of a sound-and-vision node.
// This package has NO external dependencies (no GPIO, ADC, MQTT, store or OS).
// Sensor readings and thresholds are passed in; commands are returned.
package logic

import "time"

// Output names a logical digital output. The gpio package maps outputs to
// hardware lines for the selected pin profile.
type Output string

const (
	OutputHeartbeat   Output = "heartbeat"    // this node is alive
	OutputPeerVisible Output = "peer_visible" // a peer is in range
	OutputRed         Output = "red"
	OutputAmber       Output = "amber"
	OutputGreen       Output = "green"
	OutputBuzzer      Output = "buzzer"

	// Sensor divider network. Supply is driven high at startup, both
	// returns are driven low.
	OutputSensorSupply  Output = "sensor_supply"
	OutputSensorReturnA Output = "sensor_return_a"
	OutputSensorReturnB Output = "sensor_return_b"
)

// Outputs lists every output in the order they are initialised at startup.
var Outputs = []Output{
	OutputHeartbeat,
	OutputPeerVisible,
	OutputRed,
	OutputAmber,
	OutputGreen,
	OutputBuzzer,
	OutputSensorSupply,
	OutputSensorReturnA,
	OutputSensorReturnB,
}

// Pulse durations.
const (
	HeartbeatPulse = 250 * time.Millisecond
	ColorPulse     = 550 * time.Millisecond
	LongBeep       = 375 * time.Millisecond
	MediumBeep     = 200 * time.Millisecond
	ShortBeep      = 50 * time.Millisecond
)

// LightHysteresis is the change in photo cell reading needed before a new
// reading is reported to peers.
const LightHysteresis = 50

// Pulse drives an output high for Duration and then low again.
type Pulse struct {
	Output   Output
	Duration time.Duration
}

// Call names of the peer invocation surface.
const (
	CallCanYouHearMe    = "can_you_hear_me"
	CallReportPhotoCell = "report_photo_cell"
	CallEngageGreen     = "engage_green"
	CallEngageAmber     = "engage_amber"
	CallEngageRed       = "engage_red"
)

// Call is a named remote invocation broadcast to peers.
type Call struct {
	Name string
	Args []int
}

// Action is the work a scheduler tick performs.
type Action int

const (
	ActionIdle Action = iota
	ActionHeartbeat
	ActionSenseLight
	ActionSenseTemperature
)

func (a Action) String() string {
	switch a {
	case ActionHeartbeat:
		return "heartbeat"
	case ActionSenseLight:
		return "sense_light"
	case ActionSenseTemperature:
		return "sense_temperature"
	default:
		return "idle"
	}
}

// ColorThresholds are the temperature deltas that engage each LED on the peer.
type ColorThresholds struct {
	Green int
	Amber int
	Red   int
}

// ToneThresholds are the photo cell levels that select a buzzer pulse.
// Long is expected to be the smallest and Short the largest.
type ToneThresholds struct {
	Short  int
	Medium int
	Long   int
}

// Counts tracks the calls sent and received since startup.
type Counts struct {
	Heartbeats    int
	LightReports  int
	ColorCommands int
	Received      int
}

// State is a point-in-time view of the controller.
type State struct {
	Baseline   int
	Baselined  bool
	LightLevel int
	Phase      int
	Counts     Counts
}

// StatusReport contains information for a periodic status report.
type StatusReport struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}
