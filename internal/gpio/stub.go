//go:build !linux

package gpio

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

// RealWriter is not available on non-Linux platforms.
type RealWriter struct{}

// NewRealWriter returns an error on non-Linux platforms.
func NewRealWriter(chipName string, pins Pins, log *zap.Logger) (*RealWriter, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (w *RealWriter) Set(out logic.Output, high bool) error {
	return errors.New("gpio: not supported")
}

// Pulse is not implemented on non-Linux platforms.
func (w *RealWriter) Pulse(out logic.Output, d time.Duration) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (w *RealWriter) Close() error {
	return nil
}
