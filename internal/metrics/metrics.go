// Package metrics exposes node counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

// Metrics holds the node's collectors.
type Metrics struct {
	ticks      prometheus.Counter
	sent       *prometheus.CounterVec
	sendErrors *prometheus.CounterVec
	received   *prometheus.CounterVec
	rejected   prometheus.Counter
	pulses     *prometheus.CounterVec
	readErrors *prometheus.CounterVec
	reading    *prometheus.GaugeVec
	baseline   prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "soundandvision_ticks_total",
			Help: "Scheduler ticks serviced.",
		}),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soundandvision_calls_sent_total",
			Help: "Calls broadcast to peers, by call name.",
		}, []string{"call"}),
		sendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soundandvision_call_send_errors_total",
			Help: "Broadcasts that could not be handed to the broker, by call name.",
		}, []string{"call"}),
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soundandvision_calls_received_total",
			Help: "Calls received from peers, by call name.",
		}, []string{"call"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "soundandvision_calls_rejected_total",
			Help: "Received calls with an unknown name or wrong arguments.",
		}),
		pulses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soundandvision_pulses_total",
			Help: "Output pulses started, by output.",
		}, []string{"output"}),
		readErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soundandvision_sensor_read_errors_total",
			Help: "Failed sensor reads, by sensor.",
		}, []string{"sensor"}),
		reading: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soundandvision_sensor_reading",
			Help: "Last raw reading, by sensor.",
		}, []string{"sensor"}),
		baseline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soundandvision_thermistor_baseline",
			Help: "Thermistor reading captured at boot.",
		}),
	}

	reg.MustRegister(m.ticks, m.sent, m.sendErrors, m.received, m.rejected,
		m.pulses, m.readErrors, m.reading, m.baseline)
	return m
}

func (m *Metrics) Tick() { m.ticks.Inc() }

func (m *Metrics) Sent(call logic.Call) { m.sent.WithLabelValues(call.Name).Inc() }

func (m *Metrics) SendFailed(call logic.Call) { m.sendErrors.WithLabelValues(call.Name).Inc() }

func (m *Metrics) Received(call logic.Call) { m.received.WithLabelValues(call.Name).Inc() }

func (m *Metrics) Rejected() { m.rejected.Inc() }

func (m *Metrics) Pulse(out logic.Output) { m.pulses.WithLabelValues(string(out)).Inc() }

func (m *Metrics) ReadFailed(sensor string) { m.readErrors.WithLabelValues(sensor).Inc() }

func (m *Metrics) Reading(sensor string, v int) { m.reading.WithLabelValues(sensor).Set(float64(v)) }

func (m *Metrics) Baseline(v int) { m.baseline.Set(float64(v)) }
