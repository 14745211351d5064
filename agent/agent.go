// Package agent implements the per-duck kinematic state and its stochastic update rule.
package agent

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/duckrace/config"
)

// Regime is a temporary target-speed behavior.
type Regime uint8

const (
	RegimeNormal Regime = iota
	RegimeFatigued
	RegimeAccelerating
	RegimeBoosting
)

func (r Regime) String() string {
	switch r {
	case RegimeFatigued:
		return "fatigued"
	case RegimeAccelerating:
		return "accelerating"
	case RegimeBoosting:
		return "boosting"
	default:
		return "normal"
	}
}

// PaletteSize is the number of distinct duck colors.
const PaletteSize = 20

// Emitter receives boost trail particles. A nil Emitter discards them.
type Emitter interface {
	Emit(owner int, x, y, vx, vy float64, life int)
}

// Agent is one racer.
type Agent struct {
	ID       int
	Name     string
	ColorKey int

	Position     float64
	Speed        float64
	TargetSpeed  float64
	Acceleration float64
	BaseSpeed    float64
	MinSpeed     float64
	MaxSpeed     float64

	Regime      Regime
	regimeTimer float64
	Boosting    bool
	boostTimer  int

	Finished   bool
	FinishTime float64 // race-elapsed seconds

	trackLength float64
	params      *config.AgentConfig
}

// New creates an agent at the start line with a freshly drawn base speed.
// An empty name is replaced by "Duck #<id>".
func New(id int, name string, trackLength float64, params *config.AgentConfig, rng *rand.Rand) *Agent {
	if name == "" {
		name = fmt.Sprintf("Duck #%d", id)
	}
	base := params.BaseSpeedMin + rng.Float64()*params.BaseSpeedRange

	return &Agent{
		ID:          id,
		Name:        name,
		ColorKey:    rng.Intn(PaletteSize),
		Speed:       base,
		TargetSpeed: base,
		BaseSpeed:   base,
		MinSpeed:    base * params.MinSpeedFrac,
		MaxSpeed:    base * params.MaxSpeedFrac,
		trackLength: trackLength,
		params:      params,
	}
}

// TrackLength returns the distance this agent must cover.
func (a *Agent) TrackLength() float64 {
	return a.trackLength
}

// Progress returns the covered fraction of the track in [0, 1].
func (a *Agent) Progress() float64 {
	if a.trackLength <= 0 {
		return 0
	}
	return a.Position / a.trackLength
}

// Update advances the agent by one tick.
// elapsed is the race time in seconds, recorded as FinishTime when the line is crossed.
func (a *Agent) Update(rng *rand.Rand, elapsed float64, fx Emitter) {
	if a.Finished {
		return
	}
	p := a.params

	a.regimeTimer--
	if a.regimeTimer <= 0 {
		a.regimeTimer = rng.Float64()*p.RegimeTicksRange + p.RegimeTicksMin
		a.resampleRegime(rng)
	}

	if a.Boosting {
		a.boostTimer--
		if a.boostTimer <= 0 {
			a.Boosting = false
		}
		// Sampled even without an emitter so the RNG stream does not depend on the viewer
		if rng.Float64() < p.TrailChance {
			vx := -2 - rng.Float64()*2
			vy := (rng.Float64() - 0.5) * 2
			if fx != nil {
				fx.Emit(a.ID, a.Position, 0, vx, vy, p.TrailLife)
			}
		}
	}

	a.Acceleration = (a.TargetSpeed - a.Speed) * p.Damping
	a.Speed += a.Acceleration
	a.Speed = clamp(a.Speed, a.MinSpeed, a.MaxSpeed)

	step := a.Speed + (rng.Float64()-0.5)*p.Jitter
	if step > 0 {
		a.Position += step
	}

	if a.Position >= a.trackLength {
		a.Position = a.trackLength
		a.Finished = true
		a.FinishTime = elapsed
	}
}

// resampleRegime draws the next target-speed behavior.
func (a *Agent) resampleRegime(rng *rand.Rand) {
	p := a.params
	r := rng.Float64()

	switch {
	case r > 1-p.BoostChance:
		a.Regime = RegimeBoosting
		a.TargetSpeed = a.MaxSpeed
		a.Boosting = true
		a.boostTimer = p.BoostTicks
	case r > 1-p.BoostChance-p.AccelChance:
		a.Regime = RegimeAccelerating
		a.TargetSpeed = a.BaseSpeed * (p.AccelMin + rng.Float64()*p.AccelRange)
	case r < p.FatigueChance:
		a.Regime = RegimeFatigued
		a.TargetSpeed = a.MinSpeed
	default:
		a.Regime = RegimeNormal
		a.TargetSpeed = a.BaseSpeed * (p.NormalMin + rng.Float64()*p.NormalRange)
	}
}

// Hold pins the agent at a position without touching its motion state.
// Used to stage races (and replays) at an arbitrary point.
func (a *Agent) Hold(position float64, finished bool) {
	a.Position = position
	a.Finished = finished
}

// FlapRate returns the wing animation speed multiplier for the current regime.
func (a *Agent) FlapRate() float64 {
	switch a.Regime {
	case RegimeBoosting:
		return 3
	case RegimeAccelerating:
		return 2
	case RegimeFatigued:
		return 0.5
	default:
		return 1
	}
}

// Indicator classifies the agent's visible effort.
type Indicator uint8

const (
	IndicatorNone Indicator = iota
	IndicatorBoost
	IndicatorFast
	IndicatorTired
)

// SpeedIndicator returns the badge a leaderboard shows next to the agent.
func (a *Agent) SpeedIndicator() Indicator {
	if a.Boosting {
		return IndicatorBoost
	}
	frac := a.Speed / a.MaxSpeed
	switch {
	case frac > 0.8:
		return IndicatorFast
	case frac < 0.4:
		return IndicatorTired
	}
	return IndicatorNone
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
