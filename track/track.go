// Package track provides the race track geometry and the race clock.
package track

import (
	"fmt"
	"time"
)

// Track is the one-dimensional course. Immutable once a race starts.
type Track struct {
	Length      float64
	DurationSec float64
}

// New derives the track length so that an agent holding trackSpeed units per
// tick at fps ticks per second crosses the line after durationSec.
func New(durationSec, fps, trackSpeed float64) Track {
	return Track{
		Length:      trackSpeed * fps * durationSec,
		DurationSec: durationSec,
	}
}

// Progress returns position as a fraction of the track, clamped to [0, 1].
func (t Track) Progress(position float64) float64 {
	if t.Length <= 0 {
		return 0
	}
	p := position / t.Length
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ProgressPercent returns progress in percent, as shown on leaderboards.
func (t Track) ProgressPercent(position float64) float64 {
	return t.Progress(position) * 100
}

// TimeSource supplies the current time.
type TimeSource interface {
	Now() time.Time
}

// WallClock reads the system clock.
type WallClock struct{}

// Now returns time.Now().
func (WallClock) Now() time.Time { return time.Now() }

// ManualClock is a TimeSource advanced explicitly, for headless runs and tests.
type ManualClock struct {
	t time.Time
}

// NewManualClock creates a manual clock starting at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{t: start}
}

// Now returns the clock's current instant.
func (m *ManualClock) Now() time.Time { return m.t }

// Advance moves the clock forward.
func (m *ManualClock) Advance(d time.Duration) { m.t = m.t.Add(d) }

// Clock measures race time from a start instant.
// Pausing freezes elapsed time by shifting the start instant on resume.
type Clock struct {
	source   TimeSource
	duration time.Duration

	start    time.Time
	pausedAt time.Time
	started  bool
	paused   bool
}

// NewClock creates a stopped clock for a race of the given duration.
func NewClock(source TimeSource, durationSec float64) *Clock {
	if source == nil {
		source = WallClock{}
	}
	return &Clock{
		source:   source,
		duration: time.Duration(durationSec * float64(time.Second)),
	}
}

// Start captures the start instant.
func (c *Clock) Start() {
	c.start = c.source.Now()
	c.started = true
	c.paused = false
}

// Pause freezes elapsed time. No-op when stopped or already paused.
func (c *Clock) Pause() {
	if !c.started || c.paused {
		return
	}
	c.pausedAt = c.source.Now()
	c.paused = true
}

// Resume shifts the start instant by the paused duration. No-op when not paused.
func (c *Clock) Resume() {
	if !c.paused {
		return
	}
	c.start = c.start.Add(c.source.Now().Sub(c.pausedAt))
	c.paused = false
}

// Paused reports whether the clock is frozen.
func (c *Clock) Paused() bool {
	return c.paused
}

// Elapsed returns race time in seconds.
func (c *Clock) Elapsed() float64 {
	if !c.started {
		return 0
	}
	now := c.source.Now()
	if c.paused {
		now = c.pausedAt
	}
	return now.Sub(c.start).Seconds()
}

// Remaining returns the seconds left until the nominal duration, never negative.
func (c *Clock) Remaining() float64 {
	r := c.duration.Seconds() - c.Elapsed()
	if r < 0 {
		return 0
	}
	return r
}

// FormatClock renders seconds as MM:SS:cc.
func FormatClock(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(sec * 100)
	minutes := total / 6000
	seconds := (total / 100) % 60
	centis := total % 100
	return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, centis)
}
