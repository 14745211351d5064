package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/duckrace/game"
)

// Action is a command issued from the controls.
type Action uint8

const (
	ActionNone Action = iota
	ActionStart
	ActionPause
	ActionResume
	ActionReplay
	ActionStopReplay
	ActionReset
)

// Controls renders the race buttons and the duck count slider.
type Controls struct {
	renderer *Renderer
	x, y     float32

	// Selectable duck count range
	minAgents, maxAgents int
	agentCount           int
}

// NewControls creates the control strip anchored at (x, y).
func NewControls(x, y float32, minAgents, maxAgents, agentCount int) *Controls {
	return &Controls{
		renderer:   NewRenderer(),
		x:          x,
		y:          y,
		minAgents:  minAgents,
		maxAgents:  maxAgents,
		agentCount: agentCount,
	}
}

// AgentCount returns the duck count selected with the slider.
func (c *Controls) AgentCount() int {
	return c.agentCount
}

// SetPosition moves the control strip.
func (c *Controls) SetPosition(x, y float32) {
	c.x = x
	c.y = y
}

// Draw renders the controls for the current phase and returns the clicked action.
func (c *Controls) Draw(rs *game.RaceState) Action {
	const (
		bw  = 90
		bh  = 26
		gap = 8
	)
	x, y := c.x, c.y
	button := func(label string) bool {
		hit := gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: bh}, label)
		x += bw + gap
		return hit
	}

	action := ActionNone
	switch rs.Phase {
	case game.PhaseIdle:
		if button("Start") {
			action = ActionStart
		}
		c.drawCountSlider(x, y, bh)
	case game.PhaseRunning:
		if button("Pause") {
			action = ActionPause
		}
		if button("Reset") {
			action = ActionReset
		}
	case game.PhasePaused:
		if button("Resume") {
			action = ActionResume
		}
		if button("Reset") {
			action = ActionReset
		}
	case game.PhaseFinished:
		if rs.Replaying {
			if button("Stop") {
				action = ActionStopReplay
			}
		} else if button("Replay") {
			action = ActionReplay
		}
		if button("New Race") {
			action = ActionReset
		}
	}
	return action
}

func (c *Controls) drawCountSlider(x, y, h float32) {
	const width = 220
	label := fmt.Sprintf("%d ducks", c.agentCount)
	rl.DrawText(label, int32(x), int32(y-14), c.renderer.Theme.FontSize, c.renderer.Theme.LabelColor)

	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: y + 4, Width: width, Height: h - 8},
		fmt.Sprint(c.minAgents), fmt.Sprint(c.maxAgents),
		float32(c.agentCount), float32(c.minAgents), float32(c.maxAgents),
	)
	c.agentCount = int(v + 0.5)
}

// KeyAction maps keyboard shortcuts to actions for the current phase.
func KeyAction(rs *game.RaceState) Action {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		switch rs.Phase {
		case game.PhaseIdle:
			return ActionStart
		case game.PhaseRunning:
			return ActionPause
		case game.PhasePaused:
			return ActionResume
		}
	case rl.IsKeyPressed(rl.KeyR):
		if rs.Phase == game.PhaseFinished {
			if rs.Replaying {
				return ActionStopReplay
			}
			return ActionReplay
		}
	case rl.IsKeyPressed(rl.KeyBackspace):
		return ActionReset
	}
	return ActionNone
}
