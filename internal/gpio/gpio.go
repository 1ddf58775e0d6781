// Package gpio drives the node's digital outputs with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"time"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

// Writer drives digital outputs.
type Writer interface {
	// Set drives an output to a static level, cancelling any pulse in flight.
	Set(out logic.Output, high bool) error

	// Pulse drives an output high for d and then low. A new pulse on the
	// same output restarts the timer.
	Pulse(out logic.Output, d time.Duration) error

	// Close releases GPIO resources.
	Close() error
}

// Pins maps each output to a line offset on the GPIO chip.
type Pins map[logic.Output]int
