// Package node wires the decision core to the node's store, sensors,
// outputs and peers. It owns the startup sequence and dispatches each
// scheduler tick and each received call.
package node

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sweeney/sound-and-vision/internal/adc"
	"github.com/sweeney/sound-and-vision/internal/gpio"
	"github.com/sweeney/sound-and-vision/internal/logic"
	"github.com/sweeney/sound-and-vision/internal/metrics"
	"github.com/sweeney/sound-and-vision/internal/mqtt"
	"github.com/sweeney/sound-and-vision/internal/nv"
	"github.com/sweeney/sound-and-vision/internal/thresholds"
)

// Sensor names used in logs and metrics.
const (
	SensorThermistor = "thermistor"
	SensorPhotoCell  = "photo_cell"
)

// Deps are the capabilities a Node drives.
type Deps struct {
	Store   nv.Store
	Outputs gpio.Writer
	Sensors adc.Reader
	Peers   mqtt.Broadcaster
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Node runs one sound-and-vision node. It is not safe for concurrent use;
// Tick and Handle are called from the run loop only.
type Node struct {
	store   nv.Store
	outputs gpio.Writer
	sensors adc.Reader
	peers   mqtt.Broadcaster
	metrics *metrics.Metrics
	log     *zap.Logger
	ctrl    *logic.Controller
}

// New creates a Node. startTime is used for status report uptime.
func New(d Deps, startTime time.Time) *Node {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	return &Node{
		store:   d.Store,
		outputs: d.Outputs,
		sensors: d.Sensors,
		peers:   d.Peers,
		metrics: m,
		log:     log,
		ctrl:    logic.NewController(startTime),
	}
}

// Start runs the one-time boot sequence: default the thresholds, drive
// every output low and the sensor supply high, take the thermistor
// baseline and flash the colour LEDs.
//
// A store or output failure is returned; the node cannot run without them.
// A failed baseline read is logged and leaves the temperature path off.
func (n *Node) Start() error {
	defaulted, err := thresholds.EnsureDefaults(n.store)
	if err != nil {
		return fmt.Errorf("default thresholds: %w", err)
	}
	if defaulted {
		n.log.Info("thresholds defaulted")
	}

	for _, out := range logic.Outputs {
		if err := n.outputs.Set(out, false); err != nil {
			return fmt.Errorf("init output %s: %w", out, err)
		}
	}
	if err := n.outputs.Set(logic.OutputSensorSupply, true); err != nil {
		return fmt.Errorf("drive sensor supply: %w", err)
	}

	if reading, ok := n.read(SensorThermistor, adc.ChannelThermistor); ok {
		n.ctrl.SetBaseline(reading)
		n.metrics.Baseline(reading)
		n.log.Info("baseline taken", zap.Int("thermistor", reading))
	} else {
		n.log.Warn("no thermistor baseline, temperature path disabled")
	}

	n.pulse(logic.SelfTest()...)
	return nil
}

// Tick advances the phase and performs that phase's action.
func (n *Node) Tick() logic.Action {
	n.metrics.Tick()

	action := n.ctrl.Step()
	switch action {
	case logic.ActionHeartbeat:
		p, call := n.ctrl.Heartbeat()
		n.pulse(p)
		n.broadcast(call)

	case logic.ActionSenseLight:
		reading, ok := n.read(SensorPhotoCell, adc.ChannelPhotoCell)
		if !ok {
			break
		}
		if call, ok := n.ctrl.SenseLight(reading); ok {
			n.broadcast(call)
		}

	case logic.ActionSenseTemperature:
		if !n.ctrl.IsBaselined() {
			break
		}
		reading, ok := n.read(SensorThermistor, adc.ChannelThermistor)
		if !ok {
			break
		}
		th, err := thresholds.LoadColor(n.store)
		if err != nil {
			n.log.Warn("skip temperature check", zap.Error(err))
			break
		}
		for _, call := range n.ctrl.SenseTemperature(reading, th) {
			n.broadcast(call)
		}
	}
	return action
}

// Handle performs a call received from a peer. Bad calls are logged and
// dropped.
func (n *Node) Handle(call logic.Call) {
	var tone logic.ToneThresholds
	if logic.NeedsTone(call) {
		var err error
		tone, err = thresholds.LoadTone(n.store)
		if err != nil {
			n.log.Warn("drop call", zap.String("call", call.Name), zap.Error(err))
			return
		}
	}

	pulses, err := n.ctrl.Handle(call, tone)
	if err != nil {
		n.metrics.Rejected()
		n.log.Warn("reject call", zap.Error(err))
		return
	}
	n.metrics.Received(call)
	n.log.Debug("call", zap.String("call", call.Name), zap.Ints("args", call.Args))
	n.pulse(pulses...)
}

// State returns a snapshot of the controller.
func (n *Node) State() logic.State {
	return n.ctrl.State()
}

// CheckStatusReport returns report data once every interval.
func (n *Node) CheckStatusReport(now time.Time, interval time.Duration) *logic.StatusReport {
	return n.ctrl.CheckStatusReport(now, interval)
}

func (n *Node) read(sensor string, channel int) (int, bool) {
	v, err := n.sensors.Read(channel)
	if err != nil {
		n.metrics.ReadFailed(sensor)
		n.log.Warn("sensor read failed", zap.String("sensor", sensor), zap.Error(err))
		return 0, false
	}
	n.metrics.Reading(sensor, v)
	return v, true
}

func (n *Node) pulse(pulses ...logic.Pulse) {
	for _, p := range pulses {
		if err := n.outputs.Pulse(p.Output, p.Duration); err != nil {
			n.log.Warn("pulse failed", zap.String("output", string(p.Output)), zap.Error(err))
			continue
		}
		n.metrics.Pulse(p.Output)
	}
}

func (n *Node) broadcast(call logic.Call) {
	if err := n.peers.Broadcast(call); err != nil {
		n.metrics.SendFailed(call)
		if errors.Is(err, mqtt.ErrNotConnected) {
			n.log.Debug("broadcast dropped", zap.String("call", call.Name), zap.Error(err))
		} else {
			n.log.Warn("broadcast failed", zap.String("call", call.Name), zap.Error(err))
		}
		return
	}
	n.metrics.Sent(call)
}
