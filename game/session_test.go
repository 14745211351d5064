package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/pthm-cable/duckrace/config"
	"github.com/pthm-cable/duckrace/telemetry"
	"github.com/pthm-cable/duckrace/track"
)

func newTestSession(t *testing.T, seed int64) *Session {
	t.Helper()
	return NewSession(config.Default(), Options{
		Rand:   rand.New(rand.NewSource(seed)),
		Time:   track.NewManualClock(time.Unix(0, 0)),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

type resultCollector struct {
	results []Result
}

func (c *resultCollector) RecordResult(r Result) error {
	c.results = append(c.results, r)
	return nil
}

func TestStartValidatesAgentCount(t *testing.T) {
	tests := []struct {
		count int
		ok    bool
	}{
		{5, false},
		{9, false},
		{10, true},
		{1000, true},
		{1001, false},
		{1500, false},
	}

	for _, tt := range tests {
		s := newTestSession(t, 1)
		err := s.Start(Setup{AgentCount: tt.count, DurationSec: 30})
		if tt.ok {
			if err != nil {
				t.Errorf("count %d: unexpected error %v", tt.count, err)
			}
			if len(s.Agents()) != tt.count || s.Phase() != PhaseRunning {
				t.Errorf("count %d: expected running race with %d agents", tt.count, tt.count)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidAgentCount) {
			t.Errorf("count %d: expected ErrInvalidAgentCount, got %v", tt.count, err)
		}
		if s.Phase() != PhaseIdle || s.Agents() != nil || s.RaceID() != "" {
			t.Errorf("count %d: rejected setup mutated the session", tt.count)
		}
	}
}

func TestAgentCountBoundsIgnoreWiderConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Race.MinAgents = 1
	cfg.Race.MaxAgents = 5000

	for _, count := range []int{5, 1500} {
		s := NewSession(cfg, Options{
			Rand:   rand.New(rand.NewSource(1)),
			Time:   track.NewManualClock(time.Unix(0, 0)),
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		})
		if err := s.Start(Setup{AgentCount: count, DurationSec: 30}); !errors.Is(err, ErrInvalidAgentCount) {
			t.Errorf("count %d: expected ErrInvalidAgentCount, got %v", count, err)
		}
		if s.Phase() != PhaseIdle {
			t.Errorf("count %d: rejected setup mutated the session", count)
		}
	}
}

func TestStartValidatesDuration(t *testing.T) {
	for _, d := range []float64{0, -5} {
		s := newTestSession(t, 1)
		if err := s.Start(Setup{AgentCount: 10, DurationSec: d}); !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("duration %v: expected ErrInvalidDuration, got %v", d, err)
		}
		if s.Phase() != PhaseIdle {
			t.Errorf("duration %v: session left idle state", d)
		}
	}
}

func TestStartWhenNotIdle(t *testing.T) {
	s := newTestSession(t, 1)
	if err := s.Start(Setup{AgentCount: 10, DurationSec: 30}); err != nil {
		t.Fatal(err)
	}
	id := s.RaceID()
	if err := s.Start(Setup{AgentCount: 20, DurationSec: 30}); !errors.Is(err, ErrNotIdle) {
		t.Errorf("expected ErrNotIdle, got %v", err)
	}
	if s.RaceID() != id || len(s.Agents()) != 10 {
		t.Error("second start replaced the running race")
	}
}

func TestFinishOnExactTick(t *testing.T) {
	sink := &resultCollector{}
	s := NewSession(config.Default(), Options{
		Rand:    rand.New(rand.NewSource(3)),
		Time:    track.NewManualClock(time.Unix(0, 0)),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Results: sink,
	})
	if err := s.Start(Setup{AgentCount: 10, DurationSec: 30}); err != nil {
		t.Fatal(err)
	}

	// Minimum step is well above 0.5, so agent 4 must cross on the next tick
	lead := s.Agents()[3]
	lead.Hold(lead.TrackLength()-0.5, false)

	if !s.Tick() {
		t.Fatal("expected the first tick to run")
	}
	if s.Phase() != PhaseFinished {
		t.Fatalf("expected finish on tick 1, phase is %s", s.Phase())
	}
	if s.TickCount() != 1 {
		t.Errorf("expected 1 tick, got %d", s.TickCount())
	}

	res := s.Result()
	if res == nil || res.WinnerID != lead.ID {
		t.Fatalf("expected winner %d, got %+v", lead.ID, res)
	}
	if len(res.Top3) != 3 || res.Top3[0].ProgressPercent != 100 {
		t.Errorf("unexpected podium %+v", res.Top3)
	}
	if len(sink.results) != 1 || sink.results[0].RaceID != s.RaceID() {
		t.Errorf("expected one result delivered to the sink, got %d", len(sink.results))
	}

	if s.Tick() {
		t.Error("expected no ticks after the finish")
	}
	if s.TickCount() != 1 {
		t.Error("tick count moved after the finish")
	}
}

func TestElapsedTimeNeverFinishesRace(t *testing.T) {
	clock := track.NewManualClock(time.Unix(0, 0))
	s := NewSession(config.Default(), Options{
		Rand:   rand.New(rand.NewSource(9)),
		Time:   clock,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err := s.Start(Setup{AgentCount: 10, DurationSec: 30}); err != nil {
		t.Fatal(err)
	}

	length := s.Agents()[0].TrackLength()
	for _, a := range s.Agents() {
		a.Hold(length-1e-9, false)
	}
	clock.Advance(45 * time.Second)

	rs := s.State()
	if rs.Phase != PhaseRunning {
		t.Fatalf("expected running past the duration, phase is %s", rs.Phase)
	}
	if rs.Remaining != 0 {
		t.Errorf("expected 0 remaining, got %f", rs.Remaining)
	}

	if !s.Tick() {
		t.Fatal("expected the tick to run")
	}
	if s.Phase() != PhaseFinished {
		t.Errorf("expected finish once an agent crosses, phase is %s", s.Phase())
	}
}

func TestStatePublishesCameraWindow(t *testing.T) {
	s := newTestSession(t, 4)
	if err := s.Start(Setup{AgentCount: 10, DurationSec: 30}); err != nil {
		t.Fatal(err)
	}
	s.Tick()

	rs := s.State()
	if rs.ViewStart != 0 {
		t.Errorf("expected the camera at the start line, got %f", rs.ViewStart)
	}
	want := rs.ViewportW / rs.TrackLength
	if math.Abs(rs.ViewEnd-want) > 1e-9 {
		t.Errorf("expected view end %f, got %f", want, rs.ViewEnd)
	}
}

func TestPauseResume(t *testing.T) {
	clock := track.NewManualClock(time.Unix(0, 0))
	s := NewSession(config.Default(), Options{
		Rand:   rand.New(rand.NewSource(4)),
		Time:   clock,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	// No-ops before the race
	s.Pause()
	s.Resume()
	if s.Phase() != PhaseIdle {
		t.Fatal("pause/resume changed an idle session")
	}

	if err := s.Start(Setup{AgentCount: 10, DurationSec: 30}); err != nil {
		t.Fatal(err)
	}
	s.Resume()
	if s.Phase() != PhaseRunning {
		t.Fatal("resume changed a running session")
	}

	for i := 0; i < 10; i++ {
		s.Tick()
	}
	before := s.State()

	s.Pause()
	if s.Phase() != PhasePaused {
		t.Fatal("expected paused")
	}
	if s.Tick() {
		t.Error("tick ran while paused")
	}
	clock.Advance(10 * time.Second)

	paused := s.State()
	if paused.Elapsed != before.Elapsed {
		t.Errorf("elapsed moved while paused: %v -> %v", before.Elapsed, paused.Elapsed)
	}
	for i, a := range paused.Agents {
		if a.Position != before.Agents[i].Position {
			t.Fatalf("agent %d moved while paused", a.ID)
		}
	}

	s.Resume()
	if s.Phase() != PhaseRunning {
		t.Fatal("expected running after resume")
	}
	if got := s.State().Elapsed; got != before.Elapsed {
		t.Errorf("resume did not exclude the pause: elapsed %v, want %v", got, before.Elapsed)
	}
	if !s.Tick() || s.TickCount() != 11 {
		t.Errorf("expected tick 11 after resume, got %d", s.TickCount())
	}
}

func TestRankingsEachTick(t *testing.T) {
	s := newTestSession(t, 5)
	if err := s.Start(Setup{AgentCount: 40, DurationSec: 3}); err != nil {
		t.Fatal(err)
	}

	ticks := 0
	s.Subscribe(ObserverFunc(func(rs RaceState) {
		ticks++
		ids := append([]int(nil), rs.Rankings...)
		sort.Ints(ids)
		for i, id := range ids {
			if id != i+1 {
				t.Fatalf("tick %d: rankings are not a permutation: %v", rs.Tick, rs.Rankings)
			}
		}
		for i := 1; i < len(rs.Rankings); i++ {
			prev, _ := rs.Agent(rs.Rankings[i-1])
			curr, _ := rs.Agent(rs.Rankings[i])
			if prev.Position < curr.Position {
				t.Fatalf("tick %d: rank %d ahead of rank %d", rs.Tick, i+1, i)
			}
		}
	}))

	if err := s.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if s.Phase() != PhaseFinished {
		t.Fatalf("expected race to finish, phase %s", s.Phase())
	}
	if ticks != s.TickCount() {
		t.Errorf("observer saw %d ticks, session ran %d", ticks, s.TickCount())
	}
}

func TestReplayMatchesLiveRace(t *testing.T) {
	s := newTestSession(t, 6)
	if err := s.Start(Setup{AgentCount: 25, DurationSec: 3}); err != nil {
		t.Fatal(err)
	}

	var live, replayed []RaceState
	s.Subscribe(ObserverFunc(func(rs RaceState) {
		if rs.Replaying || rs.ReplayFrame > 0 {
			replayed = append(replayed, rs)
		} else {
			live = append(live, rs)
		}
	}))

	if s.StartReplay() {
		t.Fatal("replay started during a running race")
	}
	if err := s.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}

	if !s.StartReplay() {
		t.Fatal("expected replay to start after the finish")
	}
	if err := s.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if s.Replaying() {
		t.Error("expected replay to stop at the end of the log")
	}

	if len(replayed) != len(live) {
		t.Fatalf("replayed %d frames, live race had %d", len(replayed), len(live))
	}
	for i := range live {
		if replayed[i].Elapsed != live[i].Elapsed {
			t.Fatalf("frame %d: elapsed %v, live %v", i, replayed[i].Elapsed, live[i].Elapsed)
		}
		for j, a := range live[i].Agents {
			r := replayed[i].Agents[j]
			if r.Position != a.Position || r.Finished != a.Finished {
				t.Fatalf("frame %d agent %d: replay (%v, %v), live (%v, %v)",
					i, a.ID, r.Position, r.Finished, a.Position, a.Finished)
			}
		}
		for j, id := range live[i].Rankings {
			if replayed[i].Rankings[j] != id {
				t.Fatalf("frame %d: rankings differ at %d", i, j)
			}
		}
	}
}

func TestStopReplayKeepsState(t *testing.T) {
	s := newTestSession(t, 7)
	if err := s.Start(Setup{AgentCount: 10, DurationSec: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}

	s.StartReplay()
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	s.StopReplay()
	stopped := s.State()

	if s.Tick() {
		t.Error("tick ran after replay stop")
	}
	if stopped.ReplayFrame != 5 || stopped.Replaying {
		t.Errorf("expected stop at frame 5, got frame %d replaying=%v", stopped.ReplayFrame, stopped.Replaying)
	}
	frame := s.ReplayLog().Frames[4]
	for i, a := range stopped.Agents {
		if a.Position != frame.Positions[i].Position {
			t.Fatalf("agent %d not at the last replayed frame", a.ID)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	s := newTestSession(t, 8)
	if err := s.Start(Setup{AgentCount: 10, DurationSec: 30}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if err := s.Run(context.Background(), 25); err != nil {
		t.Fatal(err)
	}
	if s.TickCount() != 25 {
		t.Errorf("expected the tick cap to stop at 25, got %d", s.TickCount())
	}
}

func TestAgentNames(t *testing.T) {
	cfg := config.Default()
	cfg.Race.Names = []string{"Cfg A", "Cfg B", "Cfg C"}
	s := NewSession(cfg, Options{
		Rand:   rand.New(rand.NewSource(9)),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	if err := s.Start(Setup{AgentCount: 10, DurationSec: 30, Names: []string{"Quackers"}}); err != nil {
		t.Fatal(err)
	}
	agents := s.Agents()
	want := []string{"Quackers", "Cfg B", "Cfg C", "Duck #4"}
	for i, name := range want {
		if agents[i].Name != name {
			t.Errorf("agent %d: got name %q, want %q", i+1, agents[i].Name, name)
		}
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	s := newTestSession(t, 10)
	if err := s.Start(Setup{AgentCount: 10, DurationSec: 3}); err != nil {
		t.Fatal(err)
	}
	s.Run(context.Background(), 0)
	s.StartReplay()
	s.Tick()

	s.Reset()
	if s.Phase() != PhaseIdle || s.Result() != nil || s.TickCount() != 0 || s.Replaying() {
		t.Fatal("reset left race state behind")
	}
	st := s.State()
	if len(st.Agents) != 0 || len(st.Highlights) != 0 {
		t.Error("idle state carries agents or highlights")
	}

	if err := s.Start(Setup{AgentCount: 12, DurationSec: 3}); err != nil {
		t.Fatalf("start after reset: %v", err)
	}
}

func TestLeaderboard(t *testing.T) {
	s := newTestSession(t, 11)
	if err := s.Start(Setup{AgentCount: 50, DurationSec: 3}); err != nil {
		t.Fatal(err)
	}
	s.Run(context.Background(), 60)

	board := s.State().Leaderboard(30)
	if len(board) != 30 {
		t.Fatalf("expected 30 rows, got %d", len(board))
	}
	for i, row := range board {
		if row.Rank != i+1 {
			t.Errorf("row %d has rank %d", i, row.Rank)
		}
		if i > 0 && row.ProgressPercent > board[i-1].ProgressPercent {
			t.Errorf("row %d ahead of row %d", i+1, i)
		}
	}
}

func TestOutputIntegration(t *testing.T) {
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	s := NewSession(config.Default(), Options{
		Rand:        rand.New(rand.NewSource(12)),
		Time:        track.NewManualClock(time.Unix(0, 0)),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Output:      om,
		SaveReplays: true,
	})
	if err := s.Start(Setup{AgentCount: 10, DurationSec: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	records, err := telemetry.LoadResults(om.ResultsPath())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].RaceID != s.RaceID() {
		t.Fatalf("expected one result row for %s, got %+v", s.RaceID(), records)
	}
	if records[0].WinnerID != s.Result().WinnerID {
		t.Errorf("winner mismatch: %d vs %d", records[0].WinnerID, s.Result().WinnerID)
	}

	if _, err := os.Stat(filepath.Join(dir, "replay_"+s.RaceID()+".json")); err != nil {
		t.Errorf("expected replay file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "telemetry.csv")); err != nil {
		t.Errorf("expected telemetry.csv: %v", err)
	}
}
