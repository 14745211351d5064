package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/duckrace/agent"
	"github.com/pthm-cable/duckrace/game"
	"github.com/pthm-cable/duckrace/renderer"
	"github.com/pthm-cable/duckrace/telemetry"
	"github.com/pthm-cable/duckrace/track"
)

// HUD renders the race clock and status line.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD across the top of the screen.
func (h *HUD) Draw(rs *game.RaceState, screenW int32, fps int32) {
	rl.DrawText("Duck Race", 10, 10, 20, rl.White)

	status := fmt.Sprintf("%d ducks | tick %d | %d FPS", len(rs.Agents), rs.Tick, fps)
	rl.DrawText(status, 10, 34, 14, rl.LightGray)

	clock := fmt.Sprintf("%s  /  -%s", track.FormatClock(rs.Elapsed), track.FormatClock(rs.Remaining))
	w := rl.MeasureText(clock, 24)
	rl.DrawText(clock, screenW/2-w/2, 10, 24, rl.White)

	var label string
	color := rl.Yellow
	switch {
	case rs.Replaying:
		label = fmt.Sprintf("REPLAY %d/%d", rs.ReplayFrame, rs.ReplayLen)
		color = rl.SkyBlue
	case rs.Phase == game.PhasePaused:
		label = "PAUSED"
	case rs.Phase == game.PhaseFinished:
		label = "FINISHED"
		color = rl.Green
	case rs.Phase == game.PhaseIdle:
		label = "READY"
		color = rl.LightGray
	}
	if label != "" {
		w := rl.MeasureText(label, 16)
		rl.DrawText(label, screenW/2-w/2, 38, 16, color)
	}
}

// DrawLegend renders the key legend at the bottom of the screen.
func (h *HUD) DrawLegend(screenH int32, legend string) {
	rl.DrawText(legend, 10, screenH-18, 12, rl.Gray)
}

// LeaderboardPanel renders the top of the field.
type LeaderboardPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	rows     int
}

// NewLeaderboardPanel creates a leaderboard showing up to rows entries.
func NewLeaderboardPanel(x, y, width int32, rows int) *LeaderboardPanel {
	return &LeaderboardPanel{renderer: NewRenderer(), x: x, y: y, width: width, rows: rows}
}

// SetPosition updates the panel position.
func (p *LeaderboardPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the leaderboard, fitting as many rows as maxHeight allows.
func (p *LeaderboardPanel) Draw(rs *game.RaceState, maxHeight int32) {
	r := p.renderer
	t := r.Theme

	rows := p.rows
	if fit := int((maxHeight - t.Padding*2 - t.LineHeight) / t.LineHeight); fit < rows {
		rows = fit
	}
	board := rs.Leaderboard(rows)
	height := t.Padding*2 + t.LineHeight*int32(len(board)+1) + 2

	r.DrawPanel(p.x, p.y, p.width, height)
	y := r.DrawSectionHeader(p.x+t.Padding, p.y+t.Padding, "Leaderboard")

	for _, e := range board {
		x := p.x + t.Padding
		rl.DrawText(fmt.Sprintf("%2d.", e.Rank), x, y, t.FontSize, t.RankColor(e.Rank))
		r.DrawSwatch(x+24, y, renderer.ColorFor(e.ColorKey))

		name := r.Truncate(e.Name, p.width-t.Padding*2-110)
		rl.DrawText(name, x+40, y, t.FontSize, t.ValueColor)

		pct := fmt.Sprintf("%5.1f%%", e.ProgressPercent)
		if e.Finished {
			pct = "FIN"
		}
		rl.DrawText(pct+indicatorGlyph(e.Indicator), p.x+p.width-t.Padding-60, y, t.FontSize, t.LabelColor)
		y += t.LineHeight
	}
}

func indicatorGlyph(i agent.Indicator) string {
	switch i {
	case agent.IndicatorBoost:
		return " >>"
	case agent.IndicatorFast:
		return " >"
	case agent.IndicatorTired:
		return " ~"
	}
	return ""
}

// HighlightFeed renders the most recent highlights.
type HighlightFeed struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHighlightFeed creates a new highlight feed.
func NewHighlightFeed(x, y, width int32) *HighlightFeed {
	return &HighlightFeed{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the feed position.
func (f *HighlightFeed) SetPosition(x, y int32) {
	f.x = x
	f.y = y
}

// Draw renders highlights newest first, fading older ones.
func (f *HighlightFeed) Draw(rs *game.RaceState) {
	if len(rs.Highlights) == 0 {
		return
	}
	r := f.renderer
	t := r.Theme

	height := t.Padding*2 + t.LineHeight*int32(len(rs.Highlights)+1) + 2
	r.DrawPanel(f.x, f.y, f.width, height)
	y := r.DrawSectionHeader(f.x+t.Padding, f.y+t.Padding, "Highlights")

	for i, h := range rs.Highlights {
		alpha := 1 - float32(i)/float32(len(rs.Highlights)+1)
		text := fmt.Sprintf("%s %s", track.FormatClock(h.Timestamp), h.Message)
		rl.DrawText(r.Truncate(text, f.width-t.Padding*2), f.x+t.Padding, y, t.FontSize, rl.Fade(t.ValueColor, alpha))
		y += t.LineHeight
	}
}

// Minimap renders the whole track with the camera window and the field.
type Minimap struct {
	renderer *Renderer
}

// NewMinimap creates a new minimap.
func NewMinimap() *Minimap {
	return &Minimap{renderer: NewRenderer()}
}

// Draw renders the minimap into the given rectangle.
func (m *Minimap) Draw(rs *game.RaceState, x, y, width, height int32) {
	if rs.TrackLength <= 0 {
		return
	}
	r := m.renderer
	r.DrawPanel(x, y, width, height)

	toX := func(frac float64) int32 {
		return x + int32(frac*float64(width))
	}

	rl.DrawRectangle(toX(rs.ViewStart), y, toX(rs.ViewEnd)-toX(rs.ViewStart), height, rl.Fade(rl.White, 0.15))

	for i := range rs.Agents {
		a := &rs.Agents[i]
		rl.DrawPixel(toX(rs.Progress(*a)), y+1+int32(i*int(height-2)/max(len(rs.Agents), 1)), renderer.ColorFor(a.ColorKey))
	}

	rl.DrawLine(x+width-1, y, x+width-1, y+height, rl.Red)
}

// DrawResult renders the podium banner once the race is finished.
func DrawResult(res *game.Result, screenW, screenH int32) {
	if res == nil {
		return
	}
	r := NewRenderer()
	t := r.Theme

	const w, h = 360, 150
	x, y := screenW/2-w/2, screenH/2-h/2
	r.DrawPanel(x, y, w, h)

	title := fmt.Sprintf("%s wins!", res.WinnerName)
	tw := rl.MeasureText(title, 22)
	rl.DrawText(title, screenW/2-tw/2, y+t.Padding, 22, t.Gold)

	ly := y + t.Padding + 34
	for i, p := range res.Top3 {
		line := fmt.Sprintf("%d. %s  %.1f%%", i+1, p.Name, p.ProgressPercent)
		rl.DrawText(line, x+t.Padding*2, ly, 16, t.RankColor(i+1))
		ly += 22
	}
	rl.DrawText(fmt.Sprintf("%s  |  %d ducks", track.FormatClock(res.ElapsedSec), res.AgentCount),
		x+t.Padding*2, y+h-t.Padding-14, t.FontSize, t.LabelColor)
}

// DuckInspector shows details for one selected duck.
type DuckInspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewDuckInspector creates a new inspector panel.
func NewDuckInspector(x, y, width int32) *DuckInspector {
	return &DuckInspector{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the inspector position.
func (d *DuckInspector) SetPosition(x, y int32) {
	d.x = x
	d.y = y
}

// Draw renders the selected duck's details. id 0 shows a hint.
func (d *DuckInspector) Draw(rs *game.RaceState, id int) {
	r := d.renderer
	t := r.Theme
	r.DrawPanel(d.x, d.y, d.width, t.Padding*2+t.LineHeight*8)
	y := r.DrawSectionHeader(d.x+t.Padding, d.y+t.Padding, "Duck")

	a, ok := rs.Agent(id)
	if !ok {
		rl.DrawText("Click a duck to inspect", d.x+t.Padding, y, t.FontSize, t.LabelColor)
		return
	}
	rank := 0
	for i, rid := range rs.Rankings {
		if rid == id {
			rank = i + 1
			break
		}
	}

	x := d.x + t.Padding
	r.DrawSwatch(x, y, renderer.ColorFor(a.ColorKey))
	rl.DrawText(r.Truncate(a.Name, d.width-t.Padding*2-16), x+16, y, t.FontSize, t.ValueColor)
	y += t.LineHeight
	y = r.DrawLabelValue(x, y, "Rank", fmt.Sprintf("%d / %d", rank, len(rs.Agents)))
	y = r.DrawLabelValue(x, y, "Regime", a.Regime.String())
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.2f", a.Speed))
	y = r.DrawLabelValue(x, y, "Progress", fmt.Sprintf("%.1f%%", rs.Progress(a)*100))
	r.DrawBar(x, y+2, d.width-t.Padding*2, float32(rs.Progress(a)), renderer.ColorFor(a.ColorKey))
}

// HistoryPanel renders totals from past races.
type HistoryPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHistoryPanel creates a new history panel.
func NewHistoryPanel(x, y, width int32) *HistoryPanel {
	return &HistoryPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (h *HistoryPanel) SetPosition(x, y int32) {
	h.x = x
	h.y = y
}

// Draw renders the history summary.
func (h *HistoryPanel) Draw(s telemetry.HistorySummary) {
	r := h.renderer
	t := r.Theme
	top := s.TopWinners(5)

	r.DrawPanel(h.x, h.y, h.width, t.Padding*2+t.LineHeight*int32(4+len(top)))
	y := r.DrawSectionHeader(h.x+t.Padding, h.y+t.Padding, "History")
	x := h.x + t.Padding

	y = r.DrawLabelValue(x, y, "Races", fmt.Sprint(s.TotalRaces))
	y = r.DrawLabelValue(x, y, "Avg time", track.FormatClock(s.AvgElapsedSec))
	for _, nc := range top {
		rl.DrawText(fmt.Sprintf("%-18s %d", r.Truncate(nc.Name, 120), nc.Count), x, y, t.FontSize, t.LabelColor)
		y += t.LineHeight
	}
}

// PerfPanel renders tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y
	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range []string{
		telemetry.PhaseAgents, telemetry.PhaseEffects, telemetry.PhaseRankings,
		telemetry.PhaseCamera, telemetry.PhaseReplay, telemetry.PhasePublish, telemetry.PhaseTelemetry,
	} {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct), x, y, 12, color)
		y += 14
	}
}
