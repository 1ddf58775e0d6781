package gpio

import (
	"sync"
	"time"

	"github.com/sweeney/sound-and-vision/internal/logic"
)

// pulser schedules the falling edge of pulses. Each output has at most one
// pending timer; a generation counter stops a superseded timer from
// clearing a newer pulse.
type pulser struct {
	mu     sync.Mutex
	set    func(out logic.Output, high bool) error
	timers map[logic.Output]*time.Timer
	gen    map[logic.Output]uint64
	onErr  func(out logic.Output, err error)
}

func newPulser(set func(out logic.Output, high bool) error, onErr func(logic.Output, error)) *pulser {
	return &pulser{
		set:    set,
		timers: make(map[logic.Output]*time.Timer),
		gen:    make(map[logic.Output]uint64),
		onErr:  onErr,
	}
}

func (p *pulser) level(out logic.Output, high bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancel(out)
	return p.set(out, high)
}

func (p *pulser) pulse(out logic.Output, d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancel(out)
	if err := p.set(out, true); err != nil {
		return err
	}

	gen := p.gen[out]
	p.timers[out] = time.AfterFunc(d, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.gen[out] != gen {
			return
		}
		delete(p.timers, out)
		if err := p.set(out, false); err != nil && p.onErr != nil {
			p.onErr(out, err)
		}
	})
	return nil
}

// cancel must be called with mu held.
func (p *pulser) cancel(out logic.Output) {
	p.gen[out]++
	if t, ok := p.timers[out]; ok {
		t.Stop()
		delete(p.timers, out)
	}
}

// stop cancels every pending pulse.
func (p *pulser) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for out := range p.timers {
		p.cancel(out)
	}
}
