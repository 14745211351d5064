// Package game runs duck races: setup, the tick loop, finish handling and replay.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/pthm-cable/duckrace/agent"
	"github.com/pthm-cable/duckrace/camera"
	"github.com/pthm-cable/duckrace/config"
	"github.com/pthm-cable/duckrace/effects"
	"github.com/pthm-cable/duckrace/ranking"
	"github.com/pthm-cable/duckrace/replay"
	"github.com/pthm-cable/duckrace/telemetry"
	"github.com/pthm-cable/duckrace/track"
)

// Phase is the race lifecycle state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidAgentCount = errors.New("invalid agent count")
	ErrInvalidDuration   = errors.New("invalid race duration")
	ErrNotIdle           = errors.New("race already started")
)

// Setup describes one race.
type Setup struct {
	AgentCount  int
	DurationSec float64
	Names       []string // Optional, assigned in agent order
}

// DefaultSetup returns the race setup from configuration.
func DefaultSetup(cfg *config.Config) Setup {
	return Setup{
		AgentCount:  cfg.Race.AgentCount,
		DurationSec: cfg.Race.DurationSec,
	}
}

// Options holds the session's injected dependencies. All are optional.
type Options struct {
	Rand   *rand.Rand       // Defaults to a source seeded with Seed
	Seed   int64            // Used when Rand is nil; 0 means time-seeded
	Time   track.TimeSource // Defaults to the wall clock
	Logger *slog.Logger     // Defaults to slog.Default()

	Results  ResultSink               // Receives each finished race
	Output   *telemetry.OutputManager // CSV output; also the default result sink
	LogStats bool                     // Log field and perf stats each window

	SaveReplays bool // Write replay_<id>.json to the output directory on finish
}

// Stepper is a time source the session advances by one tick per live tick.
type Stepper interface {
	Advance(d time.Duration)
}

// Session owns a race and everything it needs. It is not safe for
// concurrent use; observers receive copies.
type Session struct {
	cfg    *config.Config
	rng    *rand.Rand
	time   track.TimeSource
	log    *slog.Logger
	sink   ResultSink
	output *telemetry.OutputManager

	logStats    bool
	saveReplays bool
	viewportW   float64

	phase  Phase
	setup  Setup
	raceID string
	track  track.Track
	clock  *track.Clock

	agents []*agent.Agent
	byID   map[int]*agent.Agent

	// ranking is the current order; prevRanking is the buffer from the previous tick
	ranking     []*agent.Agent
	prevRanking []*agent.Agent
	detector    *ranking.Detector
	history     *ranking.History

	camera   *camera.Camera
	fx       *effects.System
	recorder *replay.Recorder
	player   *replay.Player

	replayElapsed float64
	result        *Result
	tick          int

	observers []Observer

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
}

// NewSession creates an idle session. A nil cfg uses the embedded defaults.
func NewSession(cfg *config.Config, opts Options) *Session {
	if cfg == nil {
		cfg = config.Default()
	}

	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	ts := opts.Time
	if ts == nil {
		ts = track.WallClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Results
	if sink == nil && opts.Output != nil {
		sink = OutputSink{Output: opts.Output}
	}

	return &Session{
		cfg:         cfg,
		rng:         rng,
		time:        ts,
		log:         logger,
		sink:        sink,
		output:      opts.Output,
		logStats:    opts.LogStats,
		saveReplays: opts.SaveReplays,
		viewportW:   cfg.Derived.Viewport,
		detector:    ranking.NewDetector(cfg.Ranking.HighlightTopK, cfg.Ranking.HighlightThreshold),
		history:     ranking.NewHistory(cfg.Ranking.HighlightHistory),
		fx:          effects.NewSystem(cfg.Effects.MaxParticles),
		collector:   telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.TickSec),
		perf:        telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}
}

// Validate checks a setup against the configured limits.
func (s *Session) Validate(setup Setup) error {
	lo := max(s.cfg.Race.MinAgents, config.MinAgentsFloor)
	hi := min(s.cfg.Race.MaxAgents, config.MaxAgentsCeiling)
	if setup.AgentCount < lo || setup.AgentCount > hi {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidAgentCount, setup.AgentCount, lo, hi)
	}
	if !(setup.DurationSec > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, setup.DurationSec)
	}
	return nil
}

// Start builds the field and begins the race. The setup is validated
// before any state changes.
func (s *Session) Start(setup Setup) error {
	if s.phase != PhaseIdle {
		return fmt.Errorf("%w: phase %s", ErrNotIdle, s.phase)
	}
	if err := s.Validate(setup); err != nil {
		return err
	}

	s.setup = setup
	s.raceID = ksuid.New().String()
	s.track = track.New(setup.DurationSec, s.cfg.Race.FPS, s.cfg.Race.TrackSpeed)

	s.agents = make([]*agent.Agent, setup.AgentCount)
	s.byID = make(map[int]*agent.Agent, setup.AgentCount)
	for i := range s.agents {
		a := agent.New(i+1, s.agentName(i), s.track.Length, &s.cfg.Agent, s.rng)
		s.agents[i] = a
		s.byID[a.ID] = a
	}
	s.ranking = s.ranking[:0]
	s.prevRanking = s.prevRanking[:0]

	s.camera = camera.New(s.viewportW, s.track.Length, s.cfg.Camera)
	s.recorder = replay.NewRecorder(s.cfg.Replay.MaxFrames)
	s.player = nil
	s.fx.Clear()
	s.history.Reset()
	s.collector.Reset()
	s.result = nil
	s.tick = 0

	s.clock = track.NewClock(s.time, setup.DurationSec)
	s.clock.Start()
	s.phase = PhaseRunning

	s.log.Info("race started",
		"race", s.raceID,
		"agents", setup.AgentCount,
		"duration", setup.DurationSec,
		"track_length", s.track.Length,
	)
	return nil
}

// agentName picks the i-th name from the setup, then configuration, else "".
func (s *Session) agentName(i int) string {
	if i < len(s.setup.Names) {
		return s.setup.Names[i]
	}
	if i < len(s.cfg.Race.Names) {
		return s.cfg.Race.Names[i]
	}
	return ""
}

// Pause freezes a running race. No-op otherwise.
func (s *Session) Pause() {
	if s.phase != PhaseRunning {
		return
	}
	s.clock.Pause()
	s.phase = PhasePaused
	s.log.Info("race paused", "race", s.raceID, "tick", s.tick)
}

// Resume continues a paused race. No-op otherwise.
func (s *Session) Resume() {
	if s.phase != PhasePaused {
		return
	}
	s.clock.Resume()
	s.phase = PhaseRunning
	s.log.Info("race resumed", "race", s.raceID, "tick", s.tick)
}

// Reset discards the race and returns to Idle. Observers stay subscribed.
func (s *Session) Reset() {
	s.phase = PhaseIdle
	s.raceID = ""
	s.agents = nil
	s.byID = nil
	s.ranking = s.ranking[:0]
	s.prevRanking = s.prevRanking[:0]
	s.camera = nil
	s.recorder = nil
	s.player = nil
	s.clock = nil
	s.result = nil
	s.tick = 0
	s.fx.Clear()
	s.history.Reset()
	s.collector.Reset()
}

// Tick advances the race, or the replay, by one step. Returns false when
// there was nothing to run.
func (s *Session) Tick() bool {
	if s.player != nil && s.player.Active() {
		return s.replayTick()
	}
	if s.phase != PhaseRunning {
		return false
	}

	s.perf.StartTick()

	if st, ok := s.time.(Stepper); ok {
		st.Advance(time.Duration(s.cfg.Derived.TickSec * float64(time.Second)))
	}
	elapsed := s.clock.Elapsed()

	s.perf.StartPhase(telemetry.PhaseAgents)
	for _, a := range s.agents {
		a.Update(s.rng, elapsed, s.fx)
	}

	s.perf.StartPhase(telemetry.PhaseEffects)
	s.fx.Update()

	s.perf.StartPhase(telemetry.PhaseRankings)
	s.rerank()
	highlights := s.detector.Detect(s.prevRanking, s.ranking, elapsed)
	if len(highlights) > 0 {
		s.history.Add(highlights...)
		s.recordHighlights(highlights)
	}
	leader := s.ranking[0]
	s.collector.RecordLeader(leader.ID)

	// The leader holds the maximum position, so it has finished iff anyone has
	finished := leader.Finished

	s.perf.StartPhase(telemetry.PhaseCamera)
	s.camera.Advance(leader.Position, finished)

	s.perf.StartPhase(telemetry.PhaseReplay)
	s.recorder.Record(elapsed, s.agents)

	s.tick++
	if finished {
		s.finish(elapsed)
	}

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry(elapsed, finished)

	s.perf.StartPhase(telemetry.PhasePublish)
	s.publish()

	s.perf.EndTick()
	return true
}

// rerank swaps the ranking buffers and sorts the field into the current one.
func (s *Session) rerank() {
	s.prevRanking, s.ranking = s.ranking, ranking.Rank(s.agents, s.prevRanking)
}

// finish freezes the race and delivers the result.
func (s *Session) finish(elapsed float64) {
	s.phase = PhaseFinished
	s.clock.Pause()

	res := s.buildResult(elapsed)
	s.result = &res
	s.log.Info("race finished", "result", res)

	if s.sink != nil {
		if err := s.sink.RecordResult(res); err != nil {
			s.log.Error("failed to record result", "race", s.raceID, "error", err)
		}
	}
	if s.saveReplays {
		s.saveReplay()
	}
}

// Run ticks until the race (or replay) stops, ctx is cancelled, or
// maxTicks ticks have run. maxTicks <= 0 means no cap.
func (s *Session) Run(ctx context.Context, maxTicks int) error {
	for n := 0; maxTicks <= 0 || n < maxTicks; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.Tick() {
			return nil
		}
	}
	return nil
}

// StartReplay plays the recorded race from frame 0. Returns false unless
// the race is finished with a non-empty log.
func (s *Session) StartReplay() bool {
	if s.phase != PhaseFinished || s.recorder == nil || s.recorder.Len() == 0 {
		return false
	}
	s.player = replay.NewPlayer(s.recorder.Frames())
	if !s.player.Restart() {
		return false
	}
	s.camera.Reset()
	s.log.Info("replay started", "race", s.raceID, "frames", s.player.Len())
	return true
}

// StopReplay cancels playback, leaving agents at the last replayed state.
func (s *Session) StopReplay() {
	if s.player == nil || !s.player.Active() {
		return
	}
	s.player.Stop()
	s.log.Info("replay stopped", "race", s.raceID, "frame", s.player.Index())
}

// Replaying reports whether playback is running.
func (s *Session) Replaying() bool {
	return s.player != nil && s.player.Active()
}

func (s *Session) replayTick() bool {
	s.perf.StartTick()
	s.perf.StartPhase(telemetry.PhaseReplay)

	frame, ok := s.player.Next()
	if !ok {
		s.perf.EndTick()
		s.log.Info("replay finished", "race", s.raceID)
		return false
	}
	replay.Apply(frame, s.byID)
	s.replayElapsed = frame.Elapsed

	s.perf.StartPhase(telemetry.PhaseRankings)
	s.rerank()
	leader := s.ranking[0]

	s.perf.StartPhase(telemetry.PhaseCamera)
	s.camera.Advance(leader.Position, leader.Finished)

	s.perf.StartPhase(telemetry.PhasePublish)
	s.publish()

	s.perf.EndTick()
	return true
}

// Subscribe registers an observer for per-tick state snapshots.
func (s *Session) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *Session) publish() {
	if len(s.observers) == 0 {
		return
	}
	st := s.State()
	for _, o := range s.observers {
		o.OnState(st)
	}
}

// Result returns the finished race's result, or nil before the finish.
func (s *Session) Result() *Result {
	if s.result == nil {
		return nil
	}
	r := *s.result
	r.Top3 = append([]Placing(nil), s.result.Top3...)
	return &r
}

// ReplayLog returns the recorded race.
func (s *Session) ReplayLog() *replay.Log {
	if s.recorder == nil {
		return nil
	}
	return &replay.Log{
		RaceID:      s.raceID,
		TrackLength: s.track.Length,
		Frames:      s.recorder.Frames(),
	}
}

// Phase returns the lifecycle state.
func (s *Session) Phase() Phase {
	return s.phase
}

// RaceID returns the current race's ID, empty when idle.
func (s *Session) RaceID() string {
	return s.raceID
}

// Rankings returns the agent IDs in rank order.
func (s *Session) Rankings() []int {
	return ranking.IDs(s.ranking)
}

// TickCount returns the number of live race ticks run.
func (s *Session) TickCount() int {
	return s.tick
}

// Perf returns the tick timing statistics.
func (s *Session) Perf() telemetry.PerfStats {
	return s.perf.Stats()
}

// RecordFrame records viewer frame timing.
func (s *Session) RecordFrame() {
	s.perf.RecordFrame()
}

// ResizeViewport changes the visible track width, e.g. after a window resize.
func (s *Session) ResizeViewport(w float64) {
	if w <= 0 {
		return
	}
	s.viewportW = w
	if s.camera != nil {
		s.camera.Resize(w)
	}
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Agents exposes the live field. Intended for tests and staging; callers
// must not mutate agents while a tick runs.
func (s *Session) Agents() []*agent.Agent {
	return s.agents
}
