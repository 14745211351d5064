package renderer

import (
	"github.com/pthm-cable/duckrace/game"
)

// Layout maps track coordinates onto the screen.
type Layout struct {
	ScreenW, ScreenH float32

	// Vertical extent of the water
	TrackTop, TrackBottom float32
}

// NewLayout reserves a HUD band above the water and a minimap band below it.
func NewLayout(screenW, screenH int32) Layout {
	h := float32(screenH)
	return Layout{
		ScreenW:     float32(screenW),
		ScreenH:     h,
		TrackTop:    h * 0.14,
		TrackBottom: h - 48,
	}
}

// Scale returns pixels per track unit for the given viewport width.
func (l Layout) Scale(viewportW float64) float32 {
	if viewportW <= 0 {
		return 1
	}
	return l.ScreenW / float32(viewportW)
}

// ScreenX converts a track position to a screen x.
func (l Layout) ScreenX(rs *game.RaceState, x float64) float32 {
	return float32(x-rs.CameraOffset) * l.Scale(rs.ViewportW)
}

// LaneY returns the screen y of an agent's lane. IDs run 1..n.
func (l Layout) LaneY(id, n int) float32 {
	if n <= 0 {
		return (l.TrackTop + l.TrackBottom) / 2
	}
	span := l.TrackBottom - l.TrackTop
	return l.TrackTop + span*(float32(id-1)+0.5)/float32(n)
}

// DuckRadius sizes ducks so that lanes overlap at most slightly.
func (l Layout) DuckRadius(n int) float32 {
	if n <= 0 {
		return 12
	}
	r := (l.TrackBottom - l.TrackTop) / float32(n) * 1.4
	switch {
	case r < 4:
		return 4
	case r > 14:
		return 14
	}
	return r
}

// PickAgent returns the ID of the duck nearest to screen point (mx, my),
// or 0 when no duck is within reach.
func (l Layout) PickAgent(rs *game.RaceState, mx, my float32) int {
	n := len(rs.Agents)
	reach := l.DuckRadius(n) * 1.5
	best, bestD := 0, reach*reach
	for i := range rs.Agents {
		a := &rs.Agents[i]
		dx := l.ScreenX(rs, a.Position) - mx
		dy := l.LaneY(a.ID, n) - my
		if d := dx*dx + dy*dy; d <= bestD {
			best, bestD = a.ID, d
		}
	}
	return best
}
