package watchdog

import (
	"sync"
	"testing"
	"time"
)

// manualClock is a settable time source for deterministic tests.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTimerLifecycle(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	w := New(WithClock(clock))

	if w.TimedOut() {
		t.Error("TimedOut() = true before arming")
	}

	w.StartTimer(5 * time.Second)
	if w.TimedOut() {
		t.Error("TimedOut() = true immediately after StartTimer")
	}
	if got := w.Remaining(); got != 5*time.Second {
		t.Errorf("Remaining() = %v, want 5s", got)
	}

	clock.Advance(5 * time.Second)
	if !w.TimedOut() {
		t.Error("TimedOut() = false at the deadline")
	}
	if got := w.Remaining(); got != 0 {
		t.Errorf("Remaining() = %v after expiry, want 0", got)
	}

	w.StopTimer()
	if w.TimedOut() {
		t.Error("TimedOut() = true after StopTimer")
	}
	clock.Advance(time.Hour)
	if w.TimedOut() {
		t.Error("TimedOut() = true after StopTimer regardless of clock")
	}
}

func TestRearmResetsDeadline(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	w := New(WithClock(clock))

	w.StartTimer(5 * time.Second)
	clock.Advance(4 * time.Second)
	w.StartTimer(5 * time.Second)
	clock.Advance(4 * time.Second)

	if w.TimedOut() {
		t.Error("TimedOut() = true after re-arm pushed the deadline out")
	}
	clock.Advance(time.Second)
	if !w.TimedOut() {
		t.Error("TimedOut() = false once the new deadline passed")
	}
}

func TestStopTimerIdempotent(t *testing.T) {
	t.Parallel()

	w := New()
	w.StopTimer()
	w.StopTimer()
	if w.Armed() {
		t.Error("Armed() = true after StopTimer")
	}
}

func TestPollInterval(t *testing.T) {
	t.Parallel()

	w := New(WithPollInterval(10 * time.Second))
	if got := w.PollInterval(); got != 10*time.Second {
		t.Errorf("PollInterval() = %v, want 10s", got)
	}

	w.SetPollInterval(time.Second)
	if got := w.PollInterval(); got != time.Second {
		t.Errorf("PollInterval() = %v, want 1s", got)
	}

	w.SetPollInterval(0)
	if got := w.PollInterval(); got != time.Second {
		t.Errorf("PollInterval() = %v after SetPollInterval(0), want 1s", got)
	}

	// Poll cadence is independent of the deadline timer.
	w.StartTimer(time.Minute)
	if got := w.PollInterval(); got != time.Second {
		t.Errorf("PollInterval() = %v after StartTimer, want 1s", got)
	}
}
