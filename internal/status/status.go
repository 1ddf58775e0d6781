// Package status provides a thread-safe status tracker for the sound-and-vision daemon.
// It is read by HTTP handlers and by the periodic STATUS event.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing cmd-level helpers from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Identity names the node this daemon runs.
type Identity struct {
	NodeID  string
	Group   string
	Profile string // GPIO pin profile compiled in
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs           int64
	StatusIntervalMs int64
	Broker           string
	HTTPAddr         string
	Store            string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Identity
	Node          logic.State
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time, identity and config.
func NewTracker(startTime time.Time, id Identity, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Identity:  id,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the controller state.
// Called from runLoop after every tick and handled call.
func (t *Tracker) Update(state logic.State) {
	t.mu.Lock()
	t.snap.Node = state
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
