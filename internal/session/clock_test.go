package session

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockStartsPaused(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewClock(fc)

	assert.False(t, c.Running())
	assert.Equal(t, time.Duration(0), c.Elapsed())

	fc.Advance(time.Hour)
	assert.Equal(t, time.Duration(0), c.Elapsed(), "paused clock must not advance")
}

func TestClockToggleAccumulates(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewClock(fc)

	require.True(t, c.Toggle())
	fc.Advance(90 * time.Second)
	assert.Equal(t, 90*time.Second, c.Elapsed())

	require.False(t, c.Toggle())
	fc.Advance(10 * time.Minute)
	assert.Equal(t, 90*time.Second, c.Elapsed(), "pause must freeze elapsed")

	require.True(t, c.Toggle())
	fc.Advance(30 * time.Second)
	assert.Equal(t, 2*time.Minute, c.Elapsed())
}

func TestClockMonotonic(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewClock(fc)

	last := time.Duration(0)
	for i := 0; i < 20; i++ {
		c.Toggle()
		fc.Advance(time.Duration(i) * time.Second)
		e := c.Elapsed()
		require.GreaterOrEqual(t, e, last, "elapsed must never decrease")
		last = e
	}
}

func TestClockRestoreResumesPaused(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewClock(fc)

	c.Toggle()
	fc.Advance(5 * time.Minute)
	c.Pause()

	restored := NewClock(fc)
	restored.Restore(c.Accumulated())

	assert.False(t, restored.Running(), "restored clock must come back paused")
	assert.Equal(t, 5*time.Minute, restored.Elapsed())

	// Time passing while nobody re-armed the clock must not count.
	fc.Advance(time.Hour)
	assert.Equal(t, 5*time.Minute, restored.Elapsed())
}

func TestClockRestoreNegativeClamps(t *testing.T) {
	c := NewClock(clockwork.NewFakeClock())
	c.Restore(-time.Second)
	assert.Equal(t, time.Duration(0), c.Elapsed())
}
