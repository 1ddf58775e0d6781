package gpio

import (
	"errors"
	"time"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

// Command is one recorded call on a FakeWriter.
type Command struct {
	Output   logic.Output
	High     bool          // Set level; true for pulses
	Duration time.Duration // zero for Set
}

// FakeWriter is a test double that records output commands.
type FakeWriter struct {
	// Commands contains every Set and Pulse in order.
	Commands []Command

	// Levels holds the last static level set for each output.
	Levels map[logic.Output]bool

	// WriteError, if set, will be returned by Set and Pulse.
	WriteError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeWriter creates an empty FakeWriter.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{Levels: make(map[logic.Output]bool)}
}

// Set records a static level.
func (f *FakeWriter) Set(out logic.Output, high bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	if out == "" {
		return errors.New("no output")
	}
	f.Commands = append(f.Commands, Command{Output: out, High: high})
	f.Levels[out] = high
	return nil
}

// Pulse records a pulse.
func (f *FakeWriter) Pulse(out logic.Output, d time.Duration) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	if out == "" {
		return errors.New("no output")
	}
	f.Commands = append(f.Commands, Command{Output: out, High: true, Duration: d})
	return nil
}

// Pulses returns only the recorded pulses.
func (f *FakeWriter) Pulses() []logic.Pulse {
	var out []logic.Pulse
	for _, c := range f.Commands {
		if c.Duration > 0 {
			out = append(out, logic.Pulse{Output: c.Output, Duration: c.Duration})
		}
	}
	return out
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded commands.
func (f *FakeWriter) Reset() {
	f.Commands = nil
	f.Levels = make(map[logic.Output]bool)
	f.Closed = false
	f.WriteError = nil
}
