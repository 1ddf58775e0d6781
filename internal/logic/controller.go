package logic

import (
	"fmt"
	"time"
)

// phases is the length of the tick cycle.
const phases = 5

// Controller holds the in-memory state of a node: the temperature baseline,
// the last reported light level and the tick phase.
// Not safe for concurrent use.
type Controller struct {
	baseline   int
	baselined  bool
	lightLevel int
	phase      int
	counts     Counts
	startTime  time.Time
	lastReport time.Time
}

// NewController creates a controller. The startTime is used for calculating
// uptime in status reports.
func NewController(startTime time.Time) *Controller {
	return &Controller{
		startTime:  startTime,
		lastReport: startTime,
	}
}

// SetBaseline records the boot-time thermistor reading. Only the first call
// has any effect; it reports whether the baseline was taken.
func (c *Controller) SetBaseline(reading int) bool {
	if c.baselined {
		return false
	}
	c.baseline = reading
	c.baselined = true
	return true
}

// IsBaselined returns whether a temperature baseline has been recorded.
func (c *Controller) IsBaselined() bool {
	return c.baselined
}

// Step advances the phase counter and returns the action for this tick.
// Phases run 1,2,3,4,0,1,...; phases 4 and 0 are idle.
func (c *Controller) Step() Action {
	c.phase = (c.phase + 1) % phases
	switch c.phase {
	case 1:
		return ActionHeartbeat
	case 2:
		return ActionSenseLight
	case 3:
		return ActionSenseTemperature
	default:
		return ActionIdle
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() int {
	return c.phase
}

// Heartbeat returns the local alive pulse and the ping for peers.
func (c *Controller) Heartbeat() (Pulse, Call) {
	c.counts.Heartbeats++
	return Pulse{Output: OutputHeartbeat, Duration: HeartbeatPulse},
		Call{Name: CallCanYouHearMe}
}

// SenseLight returns a report for peers when the photo cell reading has moved
// more than LightHysteresis away from the last reported level.
func (c *Controller) SenseLight(reading int) (Call, bool) {
	if reading <= c.lightLevel+LightHysteresis && reading >= c.lightLevel-LightHysteresis {
		return Call{}, false
	}
	c.lightLevel = reading
	c.counts.LightReports++
	return Call{Name: CallReportPhotoCell, Args: []int{reading}}, true
}

// SenseTemperature compares the drop from baseline against each colour
// threshold. The checks are independent: a drop beyond red also engages
// amber and green.
func (c *Controller) SenseTemperature(reading int, th ColorThresholds) []Call {
	if !c.baselined {
		return nil
	}
	delta := c.baseline - reading

	var calls []Call
	if delta > th.Green {
		calls = append(calls, Call{Name: CallEngageGreen})
	}
	if delta > th.Amber {
		calls = append(calls, Call{Name: CallEngageAmber})
	}
	if delta > th.Red {
		calls = append(calls, Call{Name: CallEngageRed})
	}
	c.counts.ColorCommands += len(calls)
	return calls
}

// Handle returns the pulses a received call asks for. The tone thresholds are
// only consulted for report_photo_cell.
func (c *Controller) Handle(call Call, tone ToneThresholds) ([]Pulse, error) {
	if err := validate(call); err != nil {
		return nil, err
	}
	c.counts.Received++

	switch call.Name {
	case CallCanYouHearMe:
		return []Pulse{{Output: OutputPeerVisible, Duration: HeartbeatPulse}}, nil
	case CallReportPhotoCell:
		if p, ok := Tone(call.Args[0], tone); ok {
			return []Pulse{p}, nil
		}
		return nil, nil
	case CallEngageGreen:
		return []Pulse{{Output: OutputGreen, Duration: ColorPulse}}, nil
	case CallEngageAmber:
		return []Pulse{{Output: OutputAmber, Duration: ColorPulse}}, nil
	default: // CallEngageRed
		return []Pulse{{Output: OutputRed, Duration: ColorPulse}}, nil
	}
}

// Tone selects the buzzer pulse for a photo cell reading. The first matching
// threshold wins; readings at or above Short are silent.
func Tone(reading int, th ToneThresholds) (Pulse, bool) {
	switch {
	case reading < th.Long:
		return Pulse{Output: OutputBuzzer, Duration: LongBeep}, true
	case reading < th.Medium:
		return Pulse{Output: OutputBuzzer, Duration: MediumBeep}, true
	case reading < th.Short:
		return Pulse{Output: OutputBuzzer, Duration: ShortBeep}, true
	}
	return Pulse{}, false
}

// SelfTest returns the boot-time flash of all three colour LEDs.
func SelfTest() []Pulse {
	return []Pulse{
		{Output: OutputGreen, Duration: ColorPulse},
		{Output: OutputAmber, Duration: ColorPulse},
		{Output: OutputRed, Duration: ColorPulse},
	}
}

// NeedsTone reports whether handling the call reads the tone thresholds.
func NeedsTone(call Call) bool {
	return call.Name == CallReportPhotoCell
}

func validate(call Call) error {
	want := 0
	switch call.Name {
	case CallReportPhotoCell:
		want = 1
	case CallCanYouHearMe, CallEngageGreen, CallEngageAmber, CallEngageRed:
	default:
		return fmt.Errorf("unknown call %q", call.Name)
	}
	if len(call.Args) != want {
		return fmt.Errorf("call %s: want %d args, got %d", call.Name, want, len(call.Args))
	}
	return nil
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	return State{
		Baseline:   c.baseline,
		Baselined:  c.baselined,
		LightLevel: c.lightLevel,
		Phase:      c.phase,
		Counts:     c.counts,
	}
}

// CheckStatusReport returns report data if the interval has elapsed since the
// last report (or startup). Returns nil if the interval has not elapsed or if
// interval is <= 0 (disabled).
func (c *Controller) CheckStatusReport(now time.Time, interval time.Duration) *StatusReport {
	if interval <= 0 {
		return nil
	}

	if now.Sub(c.lastReport) < interval {
		return nil
	}

	c.lastReport = now
	return &StatusReport{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.counts,
	}
}
