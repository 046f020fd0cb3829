// Package clockenv adapts github.com/benbjohnson/clock to the envcap.Timer
// capability, so the orchestrator's 250 ms ACK-timeout wait can be driven by
// a real clock in production and a clock.Mock in tests without the
// orchestrator importing the clock package itself.
package clockenv

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Timer wraps a clock.Clock into the envcap.Timer capability. The zero value
// is not usable; construct with New or NewWithClock.
type Timer struct {
	clock clock.Clock

	mu      sync.Mutex
	pending *clock.Timer
}

// New returns a Timer backed by the real wall clock, for production use.
func New() *Timer {
	return &Timer{clock: clock.New()}
}

// NewWithClock wraps an arbitrary clock.Clock, most commonly clock.NewMock()
// in a test that needs to advance time deterministically past a resend
// deadline.
func NewWithClock(c clock.Clock) *Timer {
	return &Timer{clock: c}
}

// Start implements envcap.Timer.
func (t *Timer) Start(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending != nil {
		t.pending.Stop()
	}
	t.pending = t.clock.AfterFunc(d, fn)
}

// Stop implements envcap.Timer.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}
