package renderer

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/duckrace/game"
)

// WaterRenderer draws the scrolling water, lane ripples and the finish line.
type WaterRenderer struct {
	layout Layout

	deep    rl.Color
	shallow rl.Color
	ripple  rl.Color
	bank    rl.Color
}

// NewWaterRenderer creates a water renderer for the given layout.
func NewWaterRenderer(layout Layout) *WaterRenderer {
	return &WaterRenderer{
		layout:  layout,
		deep:    rl.Color{R: 22, G: 92, B: 140, A: 255},
		shallow: rl.Color{R: 64, G: 160, B: 205, A: 255},
		ripple:  rl.Color{R: 210, G: 240, B: 255, A: 70},
		bank:    rl.Color{R: 86, G: 145, B: 66, A: 255},
	}
}

// SetLayout updates the layout after a window resize.
func (w *WaterRenderer) SetLayout(layout Layout) {
	w.layout = layout
}

// Draw renders the water band. t is wall time in seconds for ripple motion.
func (w *WaterRenderer) Draw(rs *game.RaceState, t float64) {
	l := w.layout
	top, bottom := int32(l.TrackTop), int32(l.TrackBottom)
	width := int32(l.ScreenW)

	rl.DrawRectangle(0, top-8, width, 8, w.bank)
	rl.DrawRectangleGradientV(0, top, width, bottom-top, w.shallow, w.deep)
	rl.DrawRectangle(0, bottom, width, 8, w.bank)

	// Ripples are fixed to the track so they scroll with the camera
	scale := l.Scale(rs.ViewportW)
	spacing := 120.0
	first := math.Floor(rs.CameraOffset/spacing) * spacing
	rows := 12
	for row := 0; row < rows; row++ {
		y := l.TrackTop + (l.TrackBottom-l.TrackTop)*(float32(row)+0.5)/float32(rows)
		shift := float64(row%2) * spacing / 2
		for x := first - spacing + shift; x < rs.CameraOffset+rs.ViewportW+spacing; x += spacing {
			sx := l.ScreenX(rs, x)
			bob := float32(math.Sin(t*2+x*0.01+float64(row))) * 2
			rl.DrawLineEx(
				rl.Vector2{X: sx, Y: y + bob},
				rl.Vector2{X: sx + 18*scale, Y: y + bob},
				1.5, w.ripple,
			)
		}
	}

	w.drawMarkers(rs)
	w.drawFinishLine(rs)
}

// drawMarkers draws a post every tenth of the track.
func (w *WaterRenderer) drawMarkers(rs *game.RaceState) {
	l := w.layout
	if rs.TrackLength <= 0 {
		return
	}
	for i := 1; i < 10; i++ {
		x := rs.TrackLength * float64(i) / 10
		sx := l.ScreenX(rs, x)
		if sx < -20 || sx > l.ScreenW+20 {
			continue
		}
		rl.DrawLineEx(rl.Vector2{X: sx, Y: l.TrackTop}, rl.Vector2{X: sx, Y: l.TrackBottom}, 1, rl.Fade(rl.White, 0.15))
		rl.DrawText(fmt.Sprintf("%d%%", i*10), int32(sx)+4, int32(l.TrackTop)-22, 12, rl.RayWhite)
	}
}

// drawFinishLine draws a checkered band at the end of the track.
func (w *WaterRenderer) drawFinishLine(rs *game.RaceState) {
	l := w.layout
	sx := l.ScreenX(rs, rs.TrackLength)
	if sx < -20 || sx > l.ScreenW+20 {
		return
	}

	const cell = 8
	for y, i := int32(l.TrackTop), 0; y < int32(l.TrackBottom); y, i = y+cell, i+1 {
		for col := int32(0); col < 2; col++ {
			c := rl.Black
			if (i+int(col))%2 == 0 {
				c = rl.White
			}
			rl.DrawRectangle(int32(sx)+col*cell, y, cell, cell, c)
		}
	}
	rl.DrawText("FINISH", int32(sx)-20, int32(l.TrackTop)-22, 14, rl.Yellow)
}
