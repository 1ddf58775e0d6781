//go:build sm220

package gpio

import "github.com/sweeney/sound-and-vision/internal/logic"

// Profile is the name of the pin profile compiled into this binary.
const Profile = "sm220"

// DefaultPins is the SM220 carrier wiring.
var DefaultPins = Pins{
	logic.OutputHeartbeat:     12,
	logic.OutputPeerVisible:   16,
	logic.OutputRed:           20,
	logic.OutputAmber:         21,
	logic.OutputGreen:         26,
	logic.OutputBuzzer:        13,
	logic.OutputSensorSupply:  19,
	logic.OutputSensorReturnA: 7,
	logic.OutputSensorReturnB: 8,
}
