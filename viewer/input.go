package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/duckrace/game"
	"github.com/pthm-cable/duckrace/renderer"
	"github.com/pthm-cable/duckrace/ui"
)

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	v.overlays.HandleInput()

	if action := ui.KeyAction(&v.state); action != ui.ActionNone {
		v.apply(action)
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		if mouse.Y >= v.layout.TrackTop && mouse.Y <= v.layout.TrackBottom {
			v.selected = v.layout.PickAgent(&v.state, mouse.X, mouse.Y)
			if v.selected != 0 {
				v.overlays.SetEnabled(ui.OverlayInspector, true)
			}
		}
	}
}

// apply turns a UI action into a session command.
func (v *Viewer) apply(action ui.Action) {
	switch action {
	case ui.ActionStart:
		setup := game.Setup{AgentCount: v.controls.AgentCount(), DurationSec: v.durationSec}
		if err := v.session.Start(setup); err != nil {
			v.log.Error("failed to start race", "error", err)
		}
	case ui.ActionPause:
		v.session.Pause()
	case ui.ActionResume:
		v.session.Resume()
	case ui.ActionReplay:
		v.session.StartReplay()
	case ui.ActionStopReplay:
		v.session.StopReplay()
	case ui.ActionReset:
		v.session.Reset()
		v.selected = 0
	}
	v.state = v.session.State()
}

// handleResize propagates new window dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW, v.screenH = w, h
	v.layout = renderer.NewLayout(w, h)
	v.water.SetLayout(v.layout)
	v.ducks.SetLayout(v.layout)
	v.particles.SetLayout(v.layout)
	v.placePanels()

	if v.session.Config().Screen.Viewport == 0 {
		v.session.ResizeViewport(float64(w))
	}
}
