package connection

import (
	"sync"
	"time"
)

// RetryTimer is a cancelable single-shot timer owned by one device session.
// Scheduling while a retry is pending replaces the pending retry; there is
// no stacking. The zero value is ready to use.
type RetryTimer struct {
	mu    sync.Mutex
	timer *time.Timer
}

// Schedule runs fn after d, replacing any pending retry.
// fn runs on its own goroutine; callers serialize their own state.
func (t *RetryTimer) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		fn()
	})
}

// Cancel stops any pending retry. Safe to call when nothing is pending.
func (t *RetryTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Pending reports whether a retry is currently scheduled.
func (t *RetryTimer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}
