// Package effects manages boost trail particles in an ECS world.
package effects

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/duckrace/components"
)

// System owns the particle world. It implements agent.Emitter.
type System struct {
	world *ecs.World

	particleMapper *ecs.Map3[components.Trail, components.Life, components.Owner]
	particleFilter *ecs.Filter3[components.Trail, components.Life, components.Owner]

	count        int
	maxParticles int

	// reused between ticks
	expired []ecs.Entity
}

// NewSystem creates a particle system capped at maxParticles live particles.
func NewSystem(maxParticles int) *System {
	world := ecs.NewWorld()
	return &System{
		world:          world,
		particleMapper: ecs.NewMap3[components.Trail, components.Life, components.Owner](world),
		particleFilter: ecs.NewFilter3[components.Trail, components.Life, components.Owner](world),
		maxParticles:   maxParticles,
	}
}

// Emit spawns one particle. Emissions past the cap are dropped.
func (s *System) Emit(owner int, x, y, vx, vy float64, life int) {
	if s.count >= s.maxParticles || life <= 0 {
		return
	}

	trail := components.Trail{X: float32(x), Y: float32(y), VelX: float32(vx), VelY: float32(vy)}
	lf := components.Life{Remaining: int32(life), Max: int32(life)}
	own := components.Owner{AgentID: owner}

	s.particleMapper.NewEntity(&trail, &lf, &own)
	s.count++
}

// Update moves every particle one tick and removes the expired ones.
func (s *System) Update() {
	s.expired = s.expired[:0]

	query := s.particleFilter.Query()
	for query.Next() {
		trail, life, _ := query.Get()

		trail.X += trail.VelX
		trail.Y += trail.VelY
		life.Remaining--

		if life.Remaining <= 0 {
			s.expired = append(s.expired, query.Entity())
		}
	}

	// Removal must wait until the query has released the world
	for _, e := range s.expired {
		s.world.RemoveEntity(e)
		s.count--
	}
}

// Particle is a read-only copy of one particle's state.
type Particle struct {
	Owner int
	Trail components.Trail
	Life  components.Life
}

// Each calls fn for every live particle.
func (s *System) Each(fn func(p Particle)) {
	query := s.particleFilter.Query()
	for query.Next() {
		trail, life, own := query.Get()
		fn(Particle{Owner: own.AgentID, Trail: *trail, Life: *life})
	}
}

// Clear removes every particle.
func (s *System) Clear() {
	s.expired = s.expired[:0]
	query := s.particleFilter.Query()
	for query.Next() {
		s.expired = append(s.expired, query.Entity())
	}
	for _, e := range s.expired {
		s.world.RemoveEntity(e)
	}
	s.count = 0
}

// Count returns the current number of live particles.
func (s *System) Count() int {
	return s.count
}
