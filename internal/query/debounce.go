package query

import (
	"sync"
	"time"
)

// Debouncer delivers only the last filter submitted within the delay window.
type Debouncer struct {
	delay time.Duration
	fn    func(Filter)

	mu      sync.Mutex
	timer   *time.Timer
	pending Filter
	gen     uint64
	stopped bool
}

func NewDebouncer(delay time.Duration, fn func(Filter)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

func (d *Debouncer) Submit(f Filter) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = f
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire runs only for the latest submission; a superseded timer that already fired is a no-op.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	f := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.fn(f)
}

// Stop drops any pending filter; later submissions are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
