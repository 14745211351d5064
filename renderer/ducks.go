package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/duckrace/agent"
	"github.com/pthm-cable/duckrace/game"
)

// DuckRenderer draws the field.
type DuckRenderer struct {
	layout Layout
	beak   rl.Color
	eye    rl.Color
	glow   rl.Color
}

// NewDuckRenderer creates a duck renderer for the given layout.
func NewDuckRenderer(layout Layout) *DuckRenderer {
	return &DuckRenderer{
		layout: layout,
		beak:   rl.Color{R: 255, G: 140, B: 0, A: 255},
		eye:    rl.Color{R: 20, G: 20, B: 20, A: 255},
		glow:   rl.Color{R: 255, G: 250, B: 200, A: 255},
	}
}

// SetLayout updates the layout after a window resize.
func (d *DuckRenderer) SetLayout(layout Layout) {
	d.layout = layout
}

// Draw renders every visible duck. t is wall time in seconds for wing animation.
// highlight is an agent ID to outline, 0 for none.
func (d *DuckRenderer) Draw(rs *game.RaceState, t float64, highlight int) {
	l := d.layout
	n := len(rs.Agents)
	radius := l.DuckRadius(n)

	for i := range rs.Agents {
		a := &rs.Agents[i]
		x := l.ScreenX(rs, a.Position)
		if x < -2*radius || x > l.ScreenW+2*radius {
			continue
		}
		y := l.LaneY(a.ID, n)
		d.drawDuck(a, x, y, radius, t)
		if a.ID == highlight {
			rl.DrawCircleLines(int32(x), int32(y), radius*1.8, rl.Yellow)
		}
	}
}

func (d *DuckRenderer) drawDuck(a *game.AgentState, x, y, r float32, t float64) {
	body := ColorFor(a.ColorKey)

	if a.Boosting {
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, r*1.6, rl.Fade(d.glow, 0.35))
	}

	// Body and head
	rl.DrawEllipse(int32(x), int32(y), r, r*0.7, body)
	hx, hy := x+r*0.8, y-r*0.6
	rl.DrawCircleV(rl.Vector2{X: hx, Y: hy}, r*0.45, body)
	rl.DrawCircleV(rl.Vector2{X: hx + r*0.15, Y: hy - r*0.1}, r*0.1+0.5, d.eye)
	rl.DrawTriangle(
		rl.Vector2{X: hx + r*0.35, Y: hy - r*0.1},
		rl.Vector2{X: hx + r*0.35, Y: hy + r*0.15},
		rl.Vector2{X: hx + r*0.8, Y: hy + r*0.05},
		d.beak,
	)

	// Wing flaps faster with effort; finished ducks rest.
	// lift must stay in [0, 1] to keep the triangle counter-clockwise
	lift := float32(0.5)
	if !a.Finished {
		lift = float32(math.Sin(t*10*a.FlapRate)+1) / 2
	}
	wing := rl.Color{R: body.R / 4 * 3, G: body.G / 4 * 3, B: body.B / 4 * 3, A: 255}
	rl.DrawTriangle(
		rl.Vector2{X: x - r*0.5, Y: y},
		rl.Vector2{X: x + r*0.3, Y: y},
		rl.Vector2{X: x - r*0.2, Y: y - r*(0.15+0.45*lift)},
		wing,
	)

	if a.Regime == agent.RegimeFatigued && r >= 8 {
		rl.DrawText("z", int32(x-r), int32(y-r*1.4), int32(r), rl.Fade(rl.White, 0.7))
	}
}
