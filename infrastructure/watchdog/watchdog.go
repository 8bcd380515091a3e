// Package watchdog provides the deadline timer and poll cadence for the
// agent's reasoning cycles and monitoring loop.
package watchdog

import (
	"sync"
	"time"
)

// Clock supplies the current time. The default implementation reads the
// wall clock; tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
func SystemClock() Clock { return ClockFunc(time.Now) }

// Watchdog owns one deadline timer and the poll interval for the
// reactive loop. A detected timeout never interrupts ongoing work; it
// only flips the flag the orchestrator checks at cycle boundaries.
type Watchdog struct {
	mu           sync.Mutex
	clock        Clock
	armed        bool
	deadline     time.Time
	pollInterval time.Duration
}

// Option configures a Watchdog.
type Option func(*Watchdog)

// WithClock substitutes the time source.
func WithClock(c Clock) Option {
	return func(w *Watchdog) { w.clock = c }
}

// WithPollInterval sets the initial poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watchdog) { w.pollInterval = d }
}

// New returns a disarmed watchdog with a 30s poll interval.
func New(opts ...Option) *Watchdog {
	w := &Watchdog{
		clock:        SystemClock(),
		pollInterval: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// StartTimer arms the deadline at now+d. Re-arming while armed resets
// the deadline; deadlines never stack.
func (w *Watchdog) StartTimer(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.armed = true
	w.deadline = w.clock.Now().Add(d)
}

// StopTimer disarms the deadline. Idempotent.
func (w *Watchdog) StopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.armed = false
	w.deadline = time.Time{}
}

// TimedOut reports whether the watchdog is armed and the deadline has
// passed. A watchdog that was never armed, or was stopped, reports
// false regardless of the clock.
func (w *Watchdog) TimedOut() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.armed && !w.clock.Now().Before(w.deadline)
}

// Armed reports whether the deadline timer is currently armed.
func (w *Watchdog) Armed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.armed
}

// Remaining returns the time left until the deadline, or zero when
// disarmed or already expired.
func (w *Watchdog) Remaining() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.armed {
		return 0
	}
	if left := w.deadline.Sub(w.clock.Now()); left > 0 {
		return left
	}
	return 0
}

// PollInterval returns the interval the reactive loop waits between
// successive polls. Independent of the deadline timer.
func (w *Watchdog) PollInterval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pollInterval
}

// SetPollInterval changes the poll cadence. Non-positive values are
// ignored.
func (w *Watchdog) SetPollInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pollInterval = d
}
