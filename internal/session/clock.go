// internal/session/clock.go
package session

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the pausable elapsed-time counter for a live session. Elapsed
// time is always derived as accumulated + (now - runningSince), never from
// a ticking counter, so a suspended process loses nothing but the span it
// was unobservable for.
//
// Clock is not safe for concurrent use; Session serializes access.
type Clock struct {
	clk          clockwork.Clock
	accumulated  time.Duration
	runningSince time.Time // zero while paused
}

// NewClock returns a paused clock at zero. Production passes
// clockwork.NewRealClock(); tests pass a FakeClock.
func NewClock(clk clockwork.Clock) *Clock {
	return &Clock{clk: clk}
}

// Running reports whether the clock is currently advancing.
func (c *Clock) Running() bool {
	return !c.runningSince.IsZero()
}

// Toggle flips between running and paused and reports the new running
// state. Pausing folds the open span into the accumulated total.
func (c *Clock) Toggle() bool {
	if c.Running() {
		c.accumulated += c.clk.Since(c.runningSince)
		c.runningSince = time.Time{}
		return false
	}
	c.runningSince = c.clk.Now()
	return true
}

// Pause stops the clock if running. Idempotent.
func (c *Clock) Pause() {
	if c.Running() {
		c.Toggle()
	}
}

// Elapsed returns total unpaused time. Monotonically non-decreasing.
func (c *Clock) Elapsed() time.Duration {
	if c.Running() {
		return c.accumulated + c.clk.Since(c.runningSince)
	}
	return c.accumulated
}

// Accumulated returns only the folded total, excluding any open span. This
// is what gets persisted.
func (c *Clock) Accumulated() time.Duration {
	return c.accumulated
}

// Restore resets the clock to a previously persisted total. The clock
// always comes back paused; advancing again requires an explicit Toggle,
// so time never silently passes across an unobserved gap.
func (c *Clock) Restore(accumulated time.Duration) {
	if accumulated < 0 {
		accumulated = 0
	}
	c.accumulated = accumulated
	c.runningSince = time.Time{}
}
