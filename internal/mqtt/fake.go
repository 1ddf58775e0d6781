package mqtt

import (
	"sync"
	"time"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

// FakeClient records published calls and events for test assertions.
// Clients joined to a FakeBus also deliver their broadcasts to peers.
type FakeClient struct {
	// NodeID is the sender ID stamped on broadcasts.
	NodeID string

	// Calls contains all calls that were broadcast.
	Calls []logic.Call

	// Payloads contains the JSON payloads that were broadcast.
	Payloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// BroadcastError, if set, will be returned by Broadcast.
	BroadcastError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool

	// Now stamps payloads; defaults to time.Now.
	Now func() time.Time

	bus *FakeBus
}

// NewFakeClient creates a FakeClient for testing.
func NewFakeClient(nodeID string) *FakeClient {
	return &FakeClient{NodeID: nodeID, Now: time.Now}
}

// Broadcast records the call and, when on a bus, delivers it to peers.
func (f *FakeClient) Broadcast(call logic.Call) error {
	if f.BroadcastError != nil {
		return f.BroadcastError
	}

	payload, err := FormatCall(f.NodeID, call, f.Now())
	if err != nil {
		return err
	}
	f.Calls = append(f.Calls, call)
	f.Payloads = append(f.Payloads, payload)

	if f.bus != nil {
		f.bus.deliver(payload)
	}
	return nil
}

// CallNames returns the names of all broadcast calls in order.
func (f *FakeClient) CallNames() []string {
	names := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		names[i] = c.Name
	}
	return names
}

// PublishSystem records the system event.
func (f *FakeClient) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the client as closed.
func (f *FakeClient) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake client is "connected".
func (f *FakeClient) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded calls and events.
func (f *FakeClient) Reset() {
	f.Calls = nil
	f.Payloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.BroadcastError = nil
	f.PublishSystemError = nil
	f.Connected = false
}

// FakeBus is an in-memory broadcast group. Each broadcast is encoded, then
// decoded and pushed to every other member's inbox, as a broker would.
type FakeBus struct {
	mu      sync.Mutex
	members map[string]*Inbox

	// Drop, if set, discards every delivery (a lossy link).
	Drop bool
}

// NewFakeBus creates an empty bus.
func NewFakeBus() *FakeBus {
	return &FakeBus{members: make(map[string]*Inbox)}
}

// Join adds a node to the bus and returns its client.
func (b *FakeBus) Join(nodeID string, inbox *Inbox) *FakeClient {
	b.mu.Lock()
	b.members[nodeID] = inbox
	b.mu.Unlock()

	c := NewFakeClient(nodeID)
	c.Connected = true
	c.bus = b
	return c
}

func (b *FakeBus) deliver(payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Drop {
		return
	}

	from, call, err := ParseCall(payload)
	if err != nil {
		return
	}
	for id, inbox := range b.members {
		if id != from {
			inbox.Push(call)
		}
	}
}
