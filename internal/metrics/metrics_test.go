package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Tick()
	m.Tick()
	m.Sent(logic.Call{Name: logic.CallEngageGreen})
	m.Sent(logic.Call{Name: logic.CallEngageGreen})
	m.SendFailed(logic.Call{Name: logic.CallCanYouHearMe})
	m.Received(logic.Call{Name: logic.CallReportPhotoCell})
	m.Rejected()
	m.Pulse(logic.OutputBuzzer)
	m.ReadFailed("thermistor")
	m.Reading("photo_cell", 512)
	m.Baseline(1000)

	if got := testutil.ToFloat64(m.ticks); got != 2 {
		t.Errorf("ticks: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.sent.WithLabelValues(logic.CallEngageGreen)); got != 2 {
		t.Errorf("sent engage_green: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.sendErrors.WithLabelValues(logic.CallCanYouHearMe)); got != 1 {
		t.Errorf("send errors: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.received.WithLabelValues(logic.CallReportPhotoCell)); got != 1 {
		t.Errorf("received: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rejected); got != 1 {
		t.Errorf("rejected: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.pulses.WithLabelValues("buzzer")); got != 1 {
		t.Errorf("pulses: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.readErrors.WithLabelValues("thermistor")); got != 1 {
		t.Errorf("read errors: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.reading.WithLabelValues("photo_cell")); got != 512 {
		t.Errorf("reading: got %v, want 512", got)
	}
	if got := testutil.ToFloat64(m.baseline); got != 1000 {
		t.Errorf("baseline: got %v, want 1000", got)
	}
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic registering twice on the same registry")
		}
	}()
	New(reg)
}
