//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/zap"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

const consumer = "sound-and-vision"

// RealWriter drives outputs on actual hardware using the Linux GPIO character device.
type RealWriter struct {
	chip   *gpiocdev.Chip
	lines  map[logic.Output]*gpiocdev.Line
	pulser *pulser
}

// NewRealWriter requests every pin in pins as an output driven low.
func NewRealWriter(chipName string, pins Pins, log *zap.Logger) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	w := &RealWriter{
		chip:  chip,
		lines: make(map[logic.Output]*gpiocdev.Line, len(pins)),
	}
	for _, out := range logic.Outputs {
		offset, ok := pins[out]
		if !ok {
			continue
		}
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(0))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", out, offset, err)
		}
		w.lines[out] = line
	}

	w.pulser = newPulser(w.write, func(out logic.Output, err error) {
		log.Warn("pulse release failed", zap.String("output", string(out)), zap.Error(err))
	})
	return w, nil
}

func (w *RealWriter) write(out logic.Output, high bool) error {
	line, ok := w.lines[out]
	if !ok {
		return fmt.Errorf("output %s has no pin", out)
	}
	v := 0
	if high {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w", out, err)
	}
	return nil
}

// Set drives an output to a static level.
func (w *RealWriter) Set(out logic.Output, high bool) error {
	return w.pulser.level(out, high)
}

// Pulse drives an output high for d.
func (w *RealWriter) Pulse(out logic.Output, d time.Duration) error {
	return w.pulser.pulse(out, d)
}

// Close releases GPIO resources.
// Reconfigures lines to input with pull-down (matching Pi boot defaults) before
// closing so that nothing is left driven after shutdown.
func (w *RealWriter) Close() error {
	if w.pulser != nil {
		w.pulser.stop()
	}

	var errs []error
	for out, line := range w.lines {
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", out, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", out, err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
