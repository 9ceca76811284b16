package listing

import (
	"sync"
	"time"
)

// Debouncer delays a commit until its input has been quiet for the window.
// Each Trigger restarts the timer; only the last value is committed.
type Debouncer[T any] struct {
	window time.Duration
	commit func(T)

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer returns a Debouncer calling commit after window of quiet.
func NewDebouncer[T any](window time.Duration, commit func(T)) *Debouncer[T] {
	return &Debouncer[T]{window: window, commit: commit}
}

// Trigger records v and restarts the quiet window.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		live := gen == d.gen
		d.mu.Unlock()
		if live {
			d.commit(v)
		}
	})
}

// Stop cancels any pending commit.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
