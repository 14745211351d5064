package main

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/pthm-cable/duckrace/config"
	"github.com/pthm-cable/duckrace/game"
	"github.com/pthm-cable/duckrace/telemetry"
	"github.com/pthm-cable/duckrace/track"
)

// Penalty weights. A race that never finishes scores unfinishedPenalty.
const (
	medianWeight      = 4.0
	unfinishedPenalty = 100.0
)

// FitnessEvaluator runs headless races and scores how closely they hit
// the configured duration and field spread.
type FitnessEvaluator struct {
	params       *ParamVector
	seeds        []int64
	baseConfig   *config.Config
	agents       int
	targetMedian float64

	mu          sync.Mutex
	bestFitness float64
	bestStats   raceStats
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config, agents int, targetMedian float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:       params,
		seeds:        seeds,
		baseConfig:   baseCfg,
		agents:       agents,
		targetMedian: targetMedian,
		bestFitness:  math.Inf(1),
	}
}

// raceStats summarizes one or more races.
type raceStats struct {
	Elapsed  float64 // Winner's finish time in seconds
	Median   float64 // Median field progress when the winner crossed
	Finished bool
}

// BestStats returns the averaged stats of the best evaluation so far.
func (fe *FitnessEvaluator) BestStats() raceStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]raceStats, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runRace(x, s)
		}(i, seed)
	}
	wg.Wait()

	duration := fe.baseConfig.Race.DurationSec
	var total float64
	var avg raceStats
	avg.Finished = true
	for _, r := range results {
		total += fe.computeFitness(r, duration)
		avg.Elapsed += r.Elapsed
		avg.Median += r.Median
		avg.Finished = avg.Finished && r.Finished
	}
	n := float64(len(results))
	fitness := total / n
	avg.Elapsed /= n
	avg.Median /= n

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestStats = avg
	}
	fe.mu.Unlock()

	return fitness
}

// computeFitness is the squared relative timing error plus the weighted
// squared distance of the field median from its target.
func (fe *FitnessEvaluator) computeFitness(r raceStats, duration float64) float64 {
	if !r.Finished {
		return unfinishedPenalty
	}
	timing := (r.Elapsed - duration) / duration
	spread := r.Median - fe.targetMedian
	return timing*timing + medianWeight*spread*spread
}

// runRace executes one headless race on simulated time.
func (fe *FitnessEvaluator) runRace(x []float64, seed int64) raceStats {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	session := game.NewSession(cfg, game.Options{
		Seed:   seed,
		Time:   track.NewManualClock(time.Unix(0, 0)),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	setup := game.DefaultSetup(cfg)
	if fe.agents > 0 {
		setup.AgentCount = fe.agents
	}
	if err := session.Start(setup); err != nil {
		return raceStats{}
	}

	// Four times the nominal duration is plenty for any sane parameters
	maxTicks := int(4 * cfg.Race.DurationSec * cfg.Race.FPS)
	if err := session.Run(context.Background(), maxTicks); err != nil {
		return raceStats{}
	}

	res := session.Result()
	if res == nil {
		return raceStats{}
	}

	rs := session.State()
	progress := make([]float64, len(rs.Agents))
	for i, a := range rs.Agents {
		progress[i] = rs.Progress(a)
	}
	_, _, _, _, _, p50, _ := telemetry.ComputeFieldStats(progress)

	return raceStats{
		Elapsed:  res.ElapsedSec,
		Median:   p50,
		Finished: true,
	}
}
