package game

import (
	"github.com/pthm-cable/duckrace/agent"
	"github.com/pthm-cable/duckrace/camera"
	"github.com/pthm-cable/duckrace/effects"
	"github.com/pthm-cable/duckrace/ranking"
	"github.com/pthm-cable/duckrace/track"
)

// AgentState is a copy of one agent's visible state.
type AgentState struct {
	ID        int
	Name      string
	Position  float64
	Speed     float64
	Finished  bool
	ColorKey  int
	Regime    agent.Regime
	Boosting  bool
	FlapRate  float64
	Indicator agent.Indicator
}

// RaceState is a read-only snapshot of the race. It shares no memory with
// the session and may be retained.
type RaceState struct {
	Phase     Phase
	RaceID    string
	Tick      int
	Elapsed   float64
	Remaining float64

	Agents   []AgentState // In ID order
	Rankings []int        // Agent IDs, leader first

	CameraOffset float64
	CameraMode   camera.Mode
	TrackLength  float64
	ViewportW    float64

	// Visible window as track fractions, for minimaps
	ViewStart, ViewEnd float64

	Highlights []ranking.Highlight // Newest first
	Particles  []effects.Particle

	Replaying   bool
	ReplayFrame int
	ReplayLen   int
}

// Agent returns the state of the agent with the given ID.
func (rs RaceState) Agent(id int) (AgentState, bool) {
	// IDs are assigned 1..N in order
	if i := id - 1; i >= 0 && i < len(rs.Agents) && rs.Agents[i].ID == id {
		return rs.Agents[i], true
	}
	for _, a := range rs.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentState{}, false
}

// Progress returns an agent's covered fraction of the track.
func (rs RaceState) Progress(a AgentState) float64 {
	if rs.TrackLength <= 0 {
		return 0
	}
	return a.Position / rs.TrackLength
}

// LeaderboardEntry is one row of the leaderboard.
type LeaderboardEntry struct {
	Rank            int // 1-based
	ID              int
	Name            string
	ColorKey        int
	ProgressPercent float64
	Finished        bool
	Indicator       agent.Indicator
}

// Leaderboard returns the top n agents by rank.
func (rs RaceState) Leaderboard(n int) []LeaderboardEntry {
	if n > len(rs.Rankings) {
		n = len(rs.Rankings)
	}
	if n <= 0 {
		return nil
	}
	tr := track.Track{Length: rs.TrackLength}
	out := make([]LeaderboardEntry, 0, n)
	for i, id := range rs.Rankings[:n] {
		a, ok := rs.Agent(id)
		if !ok {
			continue
		}
		out = append(out, LeaderboardEntry{
			Rank:            i + 1,
			ID:              a.ID,
			Name:            a.Name,
			ColorKey:        a.ColorKey,
			ProgressPercent: tr.ProgressPercent(a.Position),
			Finished:        a.Finished,
			Indicator:       a.Indicator,
		})
	}
	return out
}

// Observer receives a state snapshot once per tick.
type Observer interface {
	OnState(RaceState)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(RaceState)

// OnState calls f.
func (f ObserverFunc) OnState(rs RaceState) { f(rs) }

// State returns a snapshot of the current race.
func (s *Session) State() RaceState {
	rs := RaceState{
		Phase:      s.phase,
		RaceID:     s.raceID,
		Tick:       s.tick,
		Highlights: s.history.Items(),
		Rankings:   ranking.IDs(s.ranking),
	}
	if s.phase == PhaseIdle {
		return rs
	}

	rs.TrackLength = s.track.Length
	rs.Elapsed = s.clock.Elapsed()
	if s.player != nil && (s.player.Active() || s.player.Index() > 0) {
		rs.Elapsed = s.replayElapsed
		rs.Replaying = s.player.Active()
		rs.ReplayFrame = s.player.Index()
		rs.ReplayLen = s.player.Len()
	}
	rs.Remaining = s.setup.DurationSec - rs.Elapsed
	if rs.Remaining < 0 {
		rs.Remaining = 0
	}

	rs.Agents = make([]AgentState, len(s.agents))
	for i, a := range s.agents {
		rs.Agents[i] = AgentState{
			ID:        a.ID,
			Name:      a.Name,
			Position:  a.Position,
			Speed:     a.Speed,
			Finished:  a.Finished,
			ColorKey:  a.ColorKey,
			Regime:    a.Regime,
			Boosting:  a.Boosting,
			FlapRate:  a.FlapRate(),
			Indicator: a.SpeedIndicator(),
		}
	}

	rs.CameraOffset = s.camera.Offset
	rs.CameraMode = s.camera.Mode()
	rs.ViewportW = s.camera.ViewportW
	rs.ViewStart, rs.ViewEnd = s.camera.Progress()

	if n := s.fx.Count(); n > 0 {
		rs.Particles = make([]effects.Particle, 0, n)
		s.fx.Each(func(p effects.Particle) {
			rs.Particles = append(rs.Particles, p)
		})
	}

	return rs
}
