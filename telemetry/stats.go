// Package telemetry provides race field statistics, performance tracking and output files.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FieldStats summarizes the spread of the field over a stats window.
type FieldStats struct {
	RaceID     string  `csv:"race_id"`
	Tick       int     `csv:"tick"`
	ElapsedSec float64 `csv:"elapsed"`

	// Progress distribution (fractions of the track) sampled at window end
	LeaderProgress float64 `csv:"leader"`
	LastProgress   float64 `csv:"last"`
	MeanProgress   float64 `csv:"mean"`
	StdProgress    float64 `csv:"std"`
	P10Progress    float64 `csv:"p10"`
	P50Progress    float64 `csv:"p50"`
	P90Progress    float64 `csv:"p90"`

	// Counts at window end
	Finished int `csv:"finished"`
	Boosting int `csv:"boosting"`

	// Events during window
	Highlights    int `csv:"highlights"`
	LeaderChanges int `csv:"leader_changes"`
}

// ComputeFieldStats fills the progress distribution fields from per-agent progress values.
// values is not modified.
func ComputeFieldStats(values []float64) (leader, last, mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	leader = floats.Max(sorted)
	last = floats.Min(sorted)
	if n == 1 {
		return leader, last, sorted[0], 0, sorted[0], sorted[0], sorted[0]
	}

	mean, std = stat.MeanStdDev(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return leader, last, mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", s.Tick),
		slog.Float64("elapsed", s.ElapsedSec),
		slog.Float64("leader", s.LeaderProgress),
		slog.Float64("last", s.LastProgress),
		slog.Float64("mean", s.MeanProgress),
		slog.Float64("std", s.StdProgress),
		slog.Float64("p10", s.P10Progress),
		slog.Float64("p50", s.P50Progress),
		slog.Float64("p90", s.P90Progress),
		slog.Int("finished", s.Finished),
		slog.Int("boosting", s.Boosting),
		slog.Int("highlights", s.Highlights),
		slog.Int("leader_changes", s.LeaderChanges),
	)
}

// LogStats logs the field stats to log.
func (s FieldStats) LogStats(log *slog.Logger) {
	log.Info("field", "race", s.RaceID, "stats", s)
}
