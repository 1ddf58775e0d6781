//go:build !sm220

package gpio

import "github.com/sweeney/sound-and-vision/internal/logic"

// Profile is the name of the pin profile compiled into this binary.
const Profile = "rf200"

// DefaultPins is the RF200 carrier wiring.
var DefaultPins = Pins{
	logic.OutputHeartbeat:     17,
	logic.OutputPeerVisible:   27,
	logic.OutputRed:           22,
	logic.OutputAmber:         23,
	logic.OutputGreen:         24,
	logic.OutputBuzzer:        18,
	logic.OutputSensorSupply:  25,
	logic.OutputSensorReturnA: 5,
	logic.OutputSensorReturnB: 6,
}
