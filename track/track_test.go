package track

import (
	"math"
	"testing"
	"time"
)

func TestNewTrack(t *testing.T) {
	tr := New(30, 60, 4.0)
	if tr.Length != 7200 {
		t.Errorf("expected length 7200, got %f", tr.Length)
	}

	if p := tr.Progress(3600); p != 0.5 {
		t.Errorf("expected progress 0.5, got %f", p)
	}
	if p := tr.Progress(9000); p != 1 {
		t.Errorf("expected progress clamped to 1, got %f", p)
	}
	if p := tr.ProgressPercent(720); math.Abs(p-10) > 1e-9 {
		t.Errorf("expected 10%%, got %f", p)
	}
}

func TestClockPauseRebaselines(t *testing.T) {
	mc := NewManualClock(time.Unix(1000, 0))
	c := NewClock(mc, 30)

	if c.Elapsed() != 0 {
		t.Error("expected zero elapsed before start")
	}

	c.Start()
	mc.Advance(5 * time.Second)
	if c.Elapsed() != 5 {
		t.Errorf("expected 5s elapsed, got %f", c.Elapsed())
	}

	c.Pause()
	mc.Advance(10 * time.Second)
	if c.Elapsed() != 5 {
		t.Errorf("expected elapsed frozen at 5s while paused, got %f", c.Elapsed())
	}

	c.Resume()
	mc.Advance(2 * time.Second)
	if c.Elapsed() != 7 {
		t.Errorf("expected 7s elapsed after resume, got %f", c.Elapsed())
	}
	if c.Remaining() != 23 {
		t.Errorf("expected 23s remaining, got %f", c.Remaining())
	}

	mc.Advance(60 * time.Second)
	if c.Remaining() != 0 {
		t.Errorf("expected remaining clamped to 0, got %f", c.Remaining())
	}
}

func TestClockNoOps(t *testing.T) {
	mc := NewManualClock(time.Unix(0, 0))
	c := NewClock(mc, 30)

	// Pause before start and resume when not paused are ignored
	c.Pause()
	if c.Paused() {
		t.Error("pause before start must be a no-op")
	}
	c.Start()
	mc.Advance(time.Second)
	c.Resume()
	if c.Elapsed() != 1 {
		t.Errorf("resume without pause must not shift time, got %f", c.Elapsed())
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{30, "00:30:00"},
		{0, "00:00:00"},
		{-3, "00:00:00"},
		{75.5, "01:15:50"},
	}
	for _, tc := range tests {
		if got := FormatClock(tc.sec); got != tc.want {
			t.Errorf("FormatClock(%f) = %q, want %q", tc.sec, got, tc.want)
		}
	}
}
