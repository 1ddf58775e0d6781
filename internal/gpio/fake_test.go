package gpio

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

func TestFakeWriterRecordsCommands(t *testing.T) {
	f := NewFakeWriter()

	if err := f.Set(logic.OutputSensorSupply, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Pulse(logic.OutputBuzzer, 50*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(f.Commands))
	}
	if f.Commands[0] != (Command{Output: logic.OutputSensorSupply, High: true}) {
		t.Errorf("command 0: unexpected %+v", f.Commands[0])
	}
	if !f.Levels[logic.OutputSensorSupply] {
		t.Error("expected sensor supply level high")
	}

	pulses := f.Pulses()
	if len(pulses) != 1 {
		t.Fatalf("expected 1 pulse, got %d", len(pulses))
	}
	if pulses[0] != (logic.Pulse{Output: logic.OutputBuzzer, Duration: 50 * time.Millisecond}) {
		t.Errorf("unexpected pulse %+v", pulses[0])
	}
}

func TestFakeWriterError(t *testing.T) {
	f := NewFakeWriter()
	f.WriteError = errors.New("simulated error")

	if err := f.Pulse(logic.OutputRed, time.Second); err == nil {
		t.Error("expected error to be returned")
	}
	if err := f.Set(logic.OutputRed, false); err == nil {
		t.Error("expected error to be returned")
	}
	if len(f.Commands) != 0 {
		t.Errorf("expected no commands recorded on error, got %d", len(f.Commands))
	}
}

func TestFakeWriterCloseAndReset(t *testing.T) {
	f := NewFakeWriter()
	f.Pulse(logic.OutputGreen, time.Second)

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed || len(f.Commands) != 0 {
		t.Error("Reset should clear state")
	}
}

func TestDefaultPinsCoverAllOutputs(t *testing.T) {
	seen := map[int]logic.Output{}
	for _, out := range logic.Outputs {
		pin, ok := DefaultPins[out]
		if !ok {
			t.Errorf("profile %s: no pin for %s", Profile, out)
			continue
		}
		if other, dup := seen[pin]; dup {
			t.Errorf("profile %s: pin %d used by %s and %s", Profile, pin, other, out)
		}
		seen[pin] = out
	}
}
