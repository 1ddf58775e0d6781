// Package mqtt carries peer calls and lifecycle events over MQTT, with
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

// TopicPrefix is the root of every topic this daemon uses.
const TopicPrefix = "soundandvision"

// RPCTopic is the broadcast topic for peer calls within a group.
func RPCTopic(group string) string {
	return fmt.Sprintf("%s/%s/rpc", TopicPrefix, group)
}

// SystemTopic is the topic for a node's lifecycle events.
func SystemTopic(group, nodeID string) string {
	return fmt.Sprintf("%s/%s/system/%s", TopicPrefix, group, nodeID)
}

// ErrNotConnected is returned by Broadcast while the broker is unreachable.
// The call is dropped.
var ErrNotConnected = errors.New("mqtt: not connected")

// Broadcaster sends calls to every peer in the group. Delivery is not
// confirmed; Broadcast returns without waiting for the broker.
type Broadcaster interface {
	Broadcast(call logic.Call) error
}

// Client is the node's connection to its peers.
type Client interface {
	Broadcaster

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, status).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "STATUS", "OFFLINE"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// CallPayload is the MQTT message payload for a peer call.
type CallPayload struct {
	RPC CallInner `json:"rpc"`
}

// CallInner contains the call details.
type CallInner struct {
	From      string `json:"from"`
	Name      string `json:"name"`
	Args      []int  `json:"args,omitempty"`
	Timestamp string `json:"timestamp"`
}

// FormatCall creates the JSON payload for a call sent by node from.
func FormatCall(from string, call logic.Call, ts time.Time) ([]byte, error) {
	return json.Marshal(CallPayload{
		RPC: CallInner{
			From:      from,
			Name:      call.Name,
			Args:      call.Args,
			Timestamp: ts.UTC().Format(time.RFC3339),
		},
	})
}

// ParseCall decodes a call payload and returns the sender and the call.
func ParseCall(payload []byte) (string, logic.Call, error) {
	var p CallPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", logic.Call{}, fmt.Errorf("decode call: %w", err)
	}
	if p.RPC.Name == "" {
		return "", logic.Call{}, errors.New("decode call: missing name")
	}
	return p.RPC.From, logic.Call{Name: p.RPC.Name, Args: p.RPC.Args}, nil
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	inner := SystemPayloadInner{
		Event:  event.Event,
		Reason: event.Reason,
	}
	if !event.Timestamp.IsZero() {
		inner.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(SystemPayload{System: inner})
}
