// Package viewer runs the interactive raylib front end over a race session.
package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/duckrace/game"
	"github.com/pthm-cable/duckrace/renderer"
	"github.com/pthm-cable/duckrace/telemetry"
	"github.com/pthm-cable/duckrace/ui"
)

// Viewer draws a session and turns input into session commands.
// It only reads RaceState snapshots; all mutation goes through the session API.
type Viewer struct {
	session *game.Session
	log     *slog.Logger

	screenW, screenH int32
	layout           renderer.Layout

	water     *renderer.WaterRenderer
	ducks     *renderer.DuckRenderer
	particles *renderer.ParticleRenderer

	overlays    *ui.OverlayRegistry
	hud         *ui.HUD
	controls    *ui.Controls
	leaderboard *ui.LeaderboardPanel
	highlights  *ui.HighlightFeed
	minimap     *ui.Minimap
	inspector   *ui.DuckInspector
	history     *ui.HistoryPanel
	perfPanel   *ui.PerfPanel

	state    game.RaceState
	selected int

	resultsPath string
	summary     telemetry.HistorySummary
	durationSec float64
}

// New creates a viewer for the session. resultsPath points at results.csv
// for the history panel and may be empty.
func New(session *game.Session, screenW, screenH int32, resultsPath string, log *slog.Logger) *Viewer {
	cfg := session.Config()
	layout := renderer.NewLayout(screenW, screenH)

	v := &Viewer{
		session:     session,
		log:         log,
		screenW:     screenW,
		screenH:     screenH,
		layout:      layout,
		water:       renderer.NewWaterRenderer(layout),
		ducks:       renderer.NewDuckRenderer(layout),
		particles:   renderer.NewParticleRenderer(layout),
		overlays:    ui.NewOverlayRegistry(),
		hud:         ui.NewHUD(),
		controls:    ui.NewControls(10, 0, cfg.Race.MinAgents, cfg.Race.MaxAgents, cfg.Race.AgentCount),
		leaderboard: ui.NewLeaderboardPanel(0, 0, 230, cfg.Ranking.LeaderboardSize),
		highlights:  ui.NewHighlightFeed(0, 0, 340),
		minimap:     ui.NewMinimap(),
		inspector:   ui.NewDuckInspector(10, 0, 200),
		history:     ui.NewHistoryPanel(10, 0, 220),
		perfPanel:   ui.NewPerfPanel(0, 0),
		resultsPath: resultsPath,
		durationSec: cfg.Race.DurationSec,
	}
	v.placePanels()
	v.loadHistory()
	v.state = session.State()
	return v
}

// placePanels positions panels for the current screen size.
func (v *Viewer) placePanels() {
	l := v.layout
	top := int32(l.TrackTop) + 4
	v.controls.SetPosition(float32(v.screenW)-460, 60)
	v.leaderboard.SetPosition(v.screenW-240, top)
	v.highlights.SetPosition(10, top)
	v.inspector.SetPosition(10, int32(l.TrackBottom)-140)
	v.history.SetPosition(10, int32(l.TrackBottom)-160)
	v.perfPanel.SetPosition(v.screenW-520, top)
}

// loadHistory refreshes the history summary from results.csv.
func (v *Viewer) loadHistory() {
	if v.resultsPath == "" {
		return
	}
	records, err := telemetry.LoadResults(v.resultsPath)
	if err != nil {
		v.log.Error("failed to load race history", "error", err)
		return
	}
	v.summary = telemetry.Summarize(records)
}

// Update handles input and advances the session by one tick.
func (v *Viewer) Update() {
	v.handleResize()
	v.handleInput()

	wasFinished := v.state.Phase == game.PhaseFinished
	v.session.Tick()
	v.session.RecordFrame()
	v.state = v.session.State()

	if !wasFinished && v.state.Phase == game.PhaseFinished {
		v.loadHistory()
	}
}

// Draw renders the current snapshot.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 120, G: 190, B: 235, A: 255})

	rs := &v.state
	t := rl.GetTime()

	if rs.Phase != game.PhaseIdle {
		v.water.Draw(rs, t)
		if v.overlays.IsEnabled(ui.OverlayTrails) {
			v.particles.Draw(rs)
		}
		v.ducks.Draw(rs, t, v.selected)
	}

	v.hud.Draw(rs, v.screenW, rl.GetFPS())

	if v.overlays.IsEnabled(ui.OverlayLeaderboard) {
		v.leaderboard.Draw(rs, int32(v.layout.TrackBottom-v.layout.TrackTop)-8)
	}
	if v.overlays.IsEnabled(ui.OverlayHighlights) {
		v.highlights.Draw(rs)
	}
	if v.overlays.IsEnabled(ui.OverlayMinimap) {
		v.minimap.Draw(rs, 10, int32(v.layout.TrackBottom)+12, v.screenW-20, 14)
	}
	if v.overlays.IsEnabled(ui.OverlayInspector) {
		v.inspector.Draw(rs, v.selected)
	}
	if v.overlays.IsEnabled(ui.OverlayHistory) {
		v.history.Draw(v.summary)
	}
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perfPanel.Draw(v.session.Perf())
	}

	if rs.Phase == game.PhaseFinished && !rs.Replaying {
		ui.DrawResult(v.session.Result(), v.screenW, v.screenH)
	}

	if action := v.controls.Draw(rs); action != ui.ActionNone {
		v.apply(action)
	}
	v.hud.DrawLegend(v.screenH, v.overlays.Legend())

	rl.EndDrawing()
}
