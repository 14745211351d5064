// Package components defines ECS components for the race's visual effects.
package components

// Trail is a boost particle's position and velocity.
// X is in track coordinates, Y is a lane-relative offset.
type Trail struct {
	X, Y       float32
	VelX, VelY float32
}

// Life counts down the ticks a particle has left.
type Life struct {
	Remaining int32
	Max       int32
}

// Fraction returns remaining life in [0, 1], used for fading.
func (l Life) Fraction() float32 {
	if l.Max <= 0 {
		return 0
	}
	return float32(l.Remaining) / float32(l.Max)
}

// Owner links a particle to the agent that emitted it.
type Owner struct {
	AgentID int
}
