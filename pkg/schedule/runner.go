package schedule

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Runner fires a function on a recurring schedule. It complements the
// change-triggered path: reviews refresh at period boundaries even when
// the store is quiet.
type Runner struct {
	expr string
	fn   func()

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewRunner creates a runner for the given schedule expression.
func NewRunner(expr string, fn func()) (*Runner, error) {
	if _, err := NextRun(expr, time.Now()); err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}
	return &Runner{
		expr: expr,
		fn:   fn,
		stop: make(chan struct{}),
	}, nil
}

// Start begins the scheduling loop.
func (r *Runner) Start() {
	r.wg.Add(1)
	go r.loop()
}

// Stop stops the loop and waits for shutdown.
func (r *Runner) Stop() {
	close(r.stop)
	r.wg.Wait()
}

func (r *Runner) loop() {
	defer r.wg.Done()

	for {
		next, err := NextRun(r.expr, time.Now())
		if err != nil {
			// Validated at construction; only a clock anomaly gets here.
			log.Printf("Schedule computation failed: %v", err)
			return
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			r.fn()
		case <-r.stop:
			timer.Stop()
			return
		}
	}
}
