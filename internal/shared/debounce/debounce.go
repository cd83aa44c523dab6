// Package debounce coalesces bursts of calls into a single delayed callback.
package debounce

import (
	"sync"
	"time"
)

// Debouncer owns at most one pending timer. Every Reset pushes the deadline
// back; the callback runs once, after the burst goes quiet for delay.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
	timer *time.Timer
	gen   uint64
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Reset (re)arms the timer, replacing any pending one.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.expire(gen) })
}

// Cancel drops the pending timer without running the callback.
// Reports whether a timer was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.clearLocked()
}

// Fire runs the callback now if a timer is pending and clears it.
// Reports whether the callback ran.
func (d *Debouncer) Fire() bool {
	d.mu.Lock()
	pending := d.clearLocked()
	d.mu.Unlock()

	if pending {
		d.fn()
	}
	return pending
}

// Pending reports whether a timer is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) clearLocked() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

func (d *Debouncer) expire(gen uint64) {
	d.mu.Lock()
	// a Reset, Cancel or Fire happened after this timer was armed
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
