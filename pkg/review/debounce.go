package review

import (
	"sync"
	"time"
)

// Debouncer collapses a burst of triggers into a single invocation after
// the trigger stream has been quiet for the configured delay. There is
// at most one live timer; every trigger cancels and recreates it
// (trailing edge).
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer around fn.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = 5 * time.Second
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger restarts the quiescence countdown.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
