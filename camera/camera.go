// Package camera provides a 1D follow camera for the scrolling track view.
package camera

import "github.com/pthm-cable/duckrace/config"

// Mode is the camera's current control law.
type Mode uint8

const (
	ModeFollow Mode = iota // Keep the leader at a fixed fraction of the viewport
	ModeFinish             // Ease toward the end of the track to reveal the finish line
)

func (m Mode) String() string {
	if m == ModeFinish {
		return "finish"
	}
	return "follow"
}

// Camera controls which slice of the track is visible.
type Camera struct {
	// Offset is the track coordinate at the left edge of the viewport
	Offset float64

	// Viewport width in track units
	ViewportW float64

	// Track length (for clamping)
	TrackLength float64

	Anchor             float64
	FollowGain         float64
	FinishGain         float64
	FinishProgress     float64
	FinishExitProgress float64 // 0 disables hysteresis

	mode Mode
}

// New creates a camera at the start of the track.
func New(viewportW, trackLength float64, cfg config.CameraConfig) *Camera {
	return &Camera{
		ViewportW:          viewportW,
		TrackLength:        trackLength,
		Anchor:             cfg.Anchor,
		FollowGain:         cfg.FollowGain,
		FinishGain:         cfg.FinishGain,
		FinishProgress:     cfg.FinishProgress,
		FinishExitProgress: cfg.FinishExitProgress,
	}
}

// Mode returns the control law used by the last Advance.
func (c *Camera) Mode() Mode {
	return c.mode
}

// MaxOffset is the largest offset that keeps the viewport on the track.
func (c *Camera) MaxOffset() float64 {
	m := c.TrackLength - c.ViewportW
	if m < 0 {
		return 0
	}
	return m
}

// Target returns where the camera is heading for the given leader.
func (c *Camera) Target(leaderPosition float64, mode Mode) float64 {
	if mode == ModeFinish {
		return c.TrackLength - c.ViewportW
	}
	return leaderPosition - c.ViewportW*c.Anchor
}

// Advance moves the offset one tick toward its target and returns it.
func (c *Camera) Advance(leaderPosition float64, raceFinished bool) float64 {
	c.mode = c.nextMode(leaderPosition, raceFinished)

	gain := c.FollowGain
	if c.mode == ModeFinish {
		gain = c.FinishGain
	}

	target := c.Target(leaderPosition, c.mode)
	c.Offset += (target - c.Offset) * gain
	c.Offset = clamp(c.Offset, 0, c.MaxOffset())
	return c.Offset
}

// nextMode picks the control law from leader progress alone.
// Without hysteresis progress jitter around the threshold can flip modes every tick.
func (c *Camera) nextMode(leaderPosition float64, raceFinished bool) Mode {
	if raceFinished {
		return ModeFinish
	}
	var progress float64
	if c.TrackLength > 0 {
		progress = leaderPosition / c.TrackLength
	}

	threshold := c.FinishProgress
	if c.mode == ModeFinish && c.FinishExitProgress > 0 {
		threshold = c.FinishExitProgress
	}
	if progress >= threshold {
		return ModeFinish
	}
	return ModeFollow
}

// VisibleBounds returns the track-coordinate bounds of the visible area.
func (c *Camera) VisibleBounds() (minX, maxX float64) {
	return c.Offset, c.Offset + c.ViewportW
}

// Progress returns the visible window as fractions of the track, for minimaps.
func (c *Camera) Progress() (start, end float64) {
	if c.TrackLength <= 0 {
		return 0, 1
	}
	minX, maxX := c.VisibleBounds()
	return minX / c.TrackLength, clamp(maxX/c.TrackLength, 0, 1)
}

// Resize updates the viewport width and re-clamps the offset.
func (c *Camera) Resize(viewportW float64) {
	if viewportW == c.ViewportW {
		return
	}
	c.ViewportW = viewportW
	c.Offset = clamp(c.Offset, 0, c.MaxOffset())
}

// Reset returns the camera to the start line.
func (c *Camera) Reset() {
	c.Offset = 0
	c.mode = ModeFollow
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
