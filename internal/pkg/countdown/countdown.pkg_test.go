package countdown

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerFiresOnce(t *testing.T) {
	var fired atomic.Int32
	timer := Start(10*time.Millisecond, func() {
		fired.Add(1)
	})

	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("expected callback to fire once, fired %d times", got)
	}
	if !timer.Expired() {
		t.Fatal("expected timer to report expired")
	}
	if timer.Remaining() != 0 {
		t.Fatalf("expected zero remaining, got %v", timer.Remaining())
	}
}

func TestTimerStopPreventsCallback(t *testing.T) {
	var fired atomic.Int32
	timer := Start(20*time.Millisecond, func() {
		fired.Add(1)
	})

	if !timer.Stop() {
		t.Fatal("first Stop must report the callback was prevented")
	}
	if timer.Stop() {
		t.Fatal("second Stop must be a no-op")
	}

	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("expected no callback after Stop, fired %d times", got)
	}
}

func TestTimerRemaining(t *testing.T) {
	timer := Start(time.Hour, nil)
	defer timer.Stop()

	left := timer.Remaining()
	if left <= 59*time.Minute || left > time.Hour {
		t.Fatalf("unexpected remaining %v", left)
	}
	if timer.Expired() {
		t.Fatal("timer must not be expired yet")
	}
}

func TestTimerStopAfterExpiry(t *testing.T) {
	timer := Start(5*time.Millisecond, func() {})
	time.Sleep(30 * time.Millisecond)

	if timer.Stop() {
		t.Fatal("Stop after expiry must report false")
	}
}
