package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/duckrace/game"
)

// ParticleRenderer renders boost trail particles.
type ParticleRenderer struct {
	layout Layout
	color  rl.Color
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(layout Layout) *ParticleRenderer {
	return &ParticleRenderer{
		layout: layout,
		color:  rl.Color{R: 255, G: 240, B: 180, A: 255},
	}
}

// SetLayout updates the layout after a window resize.
func (r *ParticleRenderer) SetLayout(layout Layout) {
	r.layout = layout
}

// Draw renders all particles behind their owners' lanes.
func (r *ParticleRenderer) Draw(rs *game.RaceState) {
	l := r.layout
	n := len(rs.Agents)
	scale := l.Scale(rs.ViewportW)

	for i := range rs.Particles {
		p := &rs.Particles[i]
		sx := l.ScreenX(rs, float64(p.Trail.X))
		if sx < -10 || sx > l.ScreenW+10 {
			continue
		}
		sy := l.LaneY(p.Owner, n) + p.Trail.Y*scale

		frac := p.Life.Fraction()
		size := 3 * frac
		if size < 0.5 {
			size = 0.5
		}
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, rl.Fade(r.color, frac*0.8))
	}
}
