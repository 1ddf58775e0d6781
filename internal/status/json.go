package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Node          string       `json:"node"`
	Group         string       `json:"group"`
	Profile       string       `json:"profile"`
	Ready         bool         `json:"ready"`
	Baseline      *int         `json:"baseline,omitempty"`
	LightLevel    int          `json:"light_level"`
	Phase         int          `json:"phase"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"call_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of call counts.
type CountsJSON struct {
	Heartbeats    int `json:"heartbeats"`
	LightReports  int `json:"light_reports"`
	ColorCommands int `json:"color_commands"`
	Received      int `json:"received"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs           int64  `json:"poll_ms"`
	StatusIntervalMs int64  `json:"status_interval_ms"`
	Broker           string `json:"broker"`
	HTTPAddr         string `json:"http_addr"`
	Store            string `json:"store"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Node:          snap.NodeID,
		Group:         snap.Group,
		Profile:       snap.Profile,
		Ready:         snap.Node.Baselined,
		LightLevel:    snap.Node.LightLevel,
		Phase:         snap.Node.Phase,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Heartbeats:    snap.Node.Counts.Heartbeats,
			LightReports:  snap.Node.Counts.LightReports,
			ColorCommands: snap.Node.Counts.ColorCommands,
			Received:      snap.Node.Counts.Received,
		},
		Config: ConfigJSON{
			PollMs:           snap.Config.PollMs,
			StatusIntervalMs: snap.Config.StatusIntervalMs,
			Broker:           snap.Config.Broker,
			HTTPAddr:         snap.Config.HTTPAddr,
			Store:            snap.Config.Store,
		},
	}
	if snap.Node.Baselined {
		b := snap.Node.Baseline
		inner.Baseline = &b
	}
	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
