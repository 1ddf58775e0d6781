package mqtt

import (
	"sync"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

// DefaultInboxSize is the number of received calls held for the run loop.
const DefaultInboxSize = 64

// ringBuffer is a fixed-capacity FIFO of received calls.
// Not safe for concurrent use — caller must synchronize.
type ringBuffer struct {
	buf      []logic.Call
	capacity int
	head     int // next write position
	count    int
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{
		buf:      make([]logic.Call, capacity),
		capacity: capacity,
	}
}

// push appends a call, overwriting the oldest when full. It reports whether
// a call was dropped.
func (r *ringBuffer) push(call logic.Call) bool {
	if r.count == r.capacity {
		// Overwrite oldest: head is already pointing at it
		r.buf[r.head] = call
		r.head = (r.head + 1) % r.capacity
		return true
	}
	r.buf[r.head] = call
	r.head = (r.head + 1) % r.capacity
	r.count++
	return false
}

func (r *ringBuffer) drainAll() []logic.Call {
	if r.count == 0 {
		return nil
	}

	result := make([]logic.Call, r.count)
	// Oldest item is at (head - count) mod capacity
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(start+i)%r.capacity]
	}

	r.count = 0
	r.head = 0
	return result
}

func (r *ringBuffer) len() int {
	return r.count
}

// Inbox hands calls from the MQTT client goroutine to the run loop.
// When the loop falls behind, the oldest calls are dropped: a newer reading
// supersedes an older one.
type Inbox struct {
	mu      sync.Mutex
	ring    *ringBuffer
	dropped int
	ready   chan struct{}
}

// NewInbox creates an inbox holding up to capacity calls.
func NewInbox(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = DefaultInboxSize
	}
	return &Inbox{
		ring:  newRingBuffer(capacity),
		ready: make(chan struct{}, 1),
	}
}

// Push queues a call and wakes the run loop.
func (in *Inbox) Push(call logic.Call) {
	in.mu.Lock()
	if in.ring.push(call) {
		in.dropped++
	}
	in.mu.Unlock()

	select {
	case in.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled after a Push. One signal may cover several calls.
func (in *Inbox) Ready() <-chan struct{} {
	return in.ready
}

// Drain returns every queued call, oldest first.
func (in *Inbox) Drain() []logic.Call {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.ring.drainAll()
}

// Len returns the number of queued calls.
func (in *Inbox) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.ring.len()
}

// Dropped returns how many calls were overwritten since creation.
func (in *Inbox) Dropped() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.dropped
}
