package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/duckrace/config"
)

func TestComputeFitness(t *testing.T) {
	fe := &FitnessEvaluator{targetMedian: 0.8}

	if got := fe.computeFitness(raceStats{}, 30); got != unfinishedPenalty {
		t.Errorf("unfinished = %v, want %v", got, unfinishedPenalty)
	}
	if got := fe.computeFitness(raceStats{Elapsed: 30, Median: 0.8, Finished: true}, 30); got != 0 {
		t.Errorf("perfect race = %v, want 0", got)
	}

	// 10% late with a median 0.1 short
	got := fe.computeFitness(raceStats{Elapsed: 33, Median: 0.7, Finished: true}, 30)
	want := 0.01 + medianWeight*0.01
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("fitness = %v, want %v", got, want)
	}
}

func TestEvaluateRunsSeeds(t *testing.T) {
	cfg := config.Default()
	cfg.Race.DurationSec = 5
	cfg.ComputeDerived()

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, []int64{1, 2}, cfg, 10, 0.85)

	fitness := fe.Evaluate(pv.ExtractFromConfig(cfg))
	if math.IsNaN(fitness) || fitness >= unfinishedPenalty {
		t.Fatalf("fitness = %v, want a finished score", fitness)
	}

	best := fe.BestStats()
	if !best.Finished {
		t.Fatal("best stats not marked finished")
	}
	if best.Elapsed <= 0 {
		t.Errorf("elapsed = %v, want > 0", best.Elapsed)
	}
	if best.Median <= 0 || best.Median > 1 {
		t.Errorf("median = %v, want in (0, 1]", best.Median)
	}
}
