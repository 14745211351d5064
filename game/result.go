package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/duckrace/telemetry"
)

// Placing is one podium position.
type Placing struct {
	ID              int
	Name            string
	ProgressPercent float64
}

// Result describes a finished race.
type Result struct {
	RaceID      string
	WinnerID    int
	WinnerName  string
	Top3        []Placing
	AgentCount  int
	DurationSec float64
	ElapsedSec  float64
	Timestamp   time.Time
}

// ResultSink receives finished races.
type ResultSink interface {
	RecordResult(Result) error
}

// buildResult reads the podium from the frozen ranking.
func (s *Session) buildResult(elapsed float64) Result {
	res := Result{
		RaceID:      s.raceID,
		AgentCount:  len(s.agents),
		DurationSec: s.setup.DurationSec,
		ElapsedSec:  elapsed,
		Timestamp:   s.time.Now(),
	}
	for i := 0; i < 3 && i < len(s.ranking); i++ {
		a := s.ranking[i]
		res.Top3 = append(res.Top3, Placing{
			ID:              a.ID,
			Name:            a.Name,
			ProgressPercent: s.track.ProgressPercent(a.Position),
		})
	}
	if len(res.Top3) > 0 {
		res.WinnerID = res.Top3[0].ID
		res.WinnerName = res.Top3[0].Name
	}
	return res
}

// Record converts the result to its results.csv row.
func (r Result) Record() telemetry.ResultRecord {
	rec := telemetry.ResultRecord{
		RaceID:      r.RaceID,
		Timestamp:   r.Timestamp.UTC().Format(time.RFC3339),
		WinnerID:    r.WinnerID,
		WinnerName:  r.WinnerName,
		AgentCount:  r.AgentCount,
		DurationSec: r.DurationSec,
		ElapsedSec:  r.ElapsedSec,
	}
	names := []*string{&rec.WinnerName, &rec.SecondName, &rec.ThirdName}
	pcts := []*float64{&rec.WinnerPct, &rec.SecondPct, &rec.ThirdPct}
	for i, p := range r.Top3 {
		if i >= 3 {
			break
		}
		*names[i] = p.Name
		*pcts[i] = p.ProgressPercent
	}
	return rec
}

// LogValue implements slog.LogValuer for structured logging.
func (r Result) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("race", r.RaceID),
		slog.Int("winner_id", r.WinnerID),
		slog.String("winner", r.WinnerName),
		slog.Int("agents", r.AgentCount),
		slog.Float64("elapsed", r.ElapsedSec),
	}
	for i, p := range r.Top3 {
		attrs = append(attrs, slog.Group(placeKeys[i],
			slog.Int("id", p.ID),
			slog.String("name", p.Name),
			slog.Float64("pct", p.ProgressPercent),
		))
	}
	return slog.GroupValue(attrs...)
}

var placeKeys = [3]string{"first", "second", "third"}
