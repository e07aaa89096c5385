package joplin

import (
	"context"
	"log"
	"time"
)

// Watcher polls the change feed and invokes a callback whenever the host
// store reports new mutations. The callback is the debounce trigger; the
// watcher itself does no coalescing.
type Watcher struct {
	client   *Client
	interval time.Duration
	onChange func()
	cursor   string
	stopCh   chan struct{}
}

// NewWatcher creates a change-feed watcher.
func NewWatcher(client *Client, interval time.Duration, onChange func()) *Watcher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Watcher{
		client:   client,
		interval: interval,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}
}

// Start fast-forwards past the existing feed so only mutations after
// startup trigger the callback, then begins the polling loop.
func (w *Watcher) Start() error {
	ctx := context.Background()
	if err := w.sync(ctx, false); err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := w.sync(context.Background(), true); err != nil {
					log.Printf("Change watch error: %v", err)
				}
			case <-w.stopCh:
				return
			}
		}
	}()
	return nil
}

// Stop stops the polling loop.
func (w *Watcher) Stop() {
	close(w.stopCh)
}

// sync drains the feed from the current cursor. When notify is set and at
// least one new event was seen, the callback fires once per drain; bursts
// are left to the downstream debouncer.
func (w *Watcher) sync(ctx context.Context, notify bool) error {
	changed := false
	for {
		page, err := w.client.Events(ctx, w.cursor)
		if err != nil {
			return err
		}
		if len(page.Items) > 0 {
			changed = true
		}
		// A quiet poll may come back without a cursor; adopting it would
		// rewind to the start of the feed and replay pre-startup events.
		if page.Cursor != "" {
			w.cursor = page.Cursor
		}
		if !page.HasMore {
			break
		}
	}
	if changed && notify && w.onChange != nil {
		w.onChange()
	}
	return nil
}
