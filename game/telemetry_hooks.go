package game

import (
	"github.com/pthm-cable/duckrace/ranking"
	"github.com/pthm-cable/duckrace/replay"
	"github.com/pthm-cable/duckrace/telemetry"
)

// OutputSink appends results to the output manager's results.csv.
type OutputSink struct {
	Output *telemetry.OutputManager
}

// RecordResult implements ResultSink.
func (o OutputSink) RecordResult(r Result) error {
	return o.Output.WriteResult(r.Record())
}

// recordHighlights counts, logs and writes this tick's highlights.
func (s *Session) recordHighlights(hs []ranking.Highlight) {
	s.collector.RecordHighlights(len(hs))

	if s.cfg.Telemetry.LogHighlights {
		for _, h := range hs {
			h.LogHighlight(s.log)
		}
	}

	if s.output == nil {
		return
	}
	records := make([]telemetry.HighlightRecord, len(hs))
	for i, h := range hs {
		records[i] = telemetry.HighlightRecord{
			RaceID:     s.raceID,
			ElapsedSec: h.Timestamp,
			AgentID:    h.AgentID,
			FromRank:   h.FromRank + 1,
			ToRank:     h.ToRank + 1,
			Message:    h.Message,
		}
	}
	if err := s.output.WriteHighlights(records); err != nil {
		s.log.Error("failed to write highlights", "error", err)
	}
}

// flushTelemetry emits field stats when the window closes or the race ends.
func (s *Session) flushTelemetry(elapsed float64, finished bool) {
	if !finished && !s.collector.ShouldFlush(s.tick) {
		return
	}

	progress := make([]float64, len(s.agents))
	var nFinished, nBoosting int
	for i, a := range s.agents {
		progress[i] = a.Progress()
		if a.Finished {
			nFinished++
		}
		if a.Boosting {
			nBoosting++
		}
	}

	stats := s.collector.Flush(s.raceID, s.tick, elapsed, progress, nFinished, nBoosting)
	perfStats := s.perf.Stats()

	if s.logStats {
		stats.LogStats(s.log)
		s.log.Info("perf", "race", s.raceID, "stats", perfStats)
	}

	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			s.log.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(perfStats, s.tick); err != nil {
			s.log.Error("failed to write perf", "error", err)
		}
	}
}

// saveReplay writes the replay log to the output directory.
func (s *Session) saveReplay() {
	if s.output == nil {
		return
	}
	path, err := replay.Save(s.ReplayLog(), s.output.Dir())
	if err != nil {
		s.log.Error("failed to save replay", "error", err)
		return
	}
	s.log.Info("replay saved", "path", path, "frames", s.recorder.Len())
}
