package countdown

import (
	"sync"
	"time"
)

// Timer time-boxes a pending operation. It fires the expire callback exactly once
// when the duration elapses, unless stopped first.
type Timer struct {
	deadline time.Time
	timer    *time.Timer
	mu       sync.Mutex
	stopped  bool
}

// Start begins counting down and schedules onExpire. onExpire runs on the timer
// goroutine; it is never invoked after Stop returns true.
func Start(d time.Duration, onExpire func()) *Timer {
	t := &Timer{deadline: time.Now().Add(d)}

	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.stopped {
			t.mu.Unlock()
			return
		}
		t.stopped = true
		t.mu.Unlock()

		if onExpire != nil {
			onExpire()
		}
	})

	return t
}

// Remaining returns the time left, floored at zero.
func (t *Timer) Remaining() time.Duration {
	left := time.Until(t.deadline)
	if left < 0 {
		return 0
	}
	return left
}

// Stop cancels the countdown. Returns true when the callback had not fired and
// now never will. Safe to call more than once.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}

// Expired reports whether the deadline has passed.
func (t *Timer) Expired() bool {
	return time.Now().After(t.deadline)
}
