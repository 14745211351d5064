package telemetry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
)

// ResultRecord is one finished race as stored in results.csv.
type ResultRecord struct {
	RaceID      string  `csv:"race_id"`
	Timestamp   string  `csv:"timestamp"`
	WinnerID    int     `csv:"winner_id"`
	WinnerName  string  `csv:"winner"`
	SecondName  string  `csv:"second"`
	ThirdName   string  `csv:"third"`
	WinnerPct   float64 `csv:"winner_pct"`
	SecondPct   float64 `csv:"second_pct"`
	ThirdPct    float64 `csv:"third_pct"`
	AgentCount  int     `csv:"agents"`
	DurationSec float64 `csv:"duration"`
	ElapsedSec  float64 `csv:"elapsed"`
}

// Podium returns the names of the top three, skipping empty slots.
func (r ResultRecord) Podium() []string {
	out := make([]string, 0, 3)
	for _, n := range []string{r.WinnerName, r.SecondName, r.ThirdName} {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// LoadResults reads every record from a results.csv file.
// A missing file yields an empty history.
func LoadResults(path string) ([]ResultRecord, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening results: %w", err)
	}
	defer f.Close()

	var records []ResultRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading results: %w", err)
	}
	return records, nil
}

// NameCount pairs a duck name with a tally.
type NameCount struct {
	Name  string
	Count int
}

// HistorySummary aggregates past races.
type HistorySummary struct {
	TotalRaces    int
	TotalAgents   int
	AvgElapsedSec float64
	Wins          map[string]int
	Podiums       map[string]int
	LastRaceID    string
}

// Summarize aggregates race records. Records are expected oldest first.
func Summarize(records []ResultRecord) HistorySummary {
	s := HistorySummary{
		Wins:    make(map[string]int),
		Podiums: make(map[string]int),
	}
	if len(records) == 0 {
		return s
	}

	var elapsed float64
	for _, r := range records {
		s.TotalRaces++
		s.TotalAgents += r.AgentCount
		elapsed += r.ElapsedSec
		if r.WinnerName != "" {
			s.Wins[r.WinnerName]++
		}
		for _, name := range r.Podium() {
			s.Podiums[name]++
		}
	}
	s.AvgElapsedSec = elapsed / float64(s.TotalRaces)
	s.LastRaceID = records[len(records)-1].RaceID

	return s
}

// TopWinners returns up to n names ordered by win count, ties by name.
func (s HistorySummary) TopWinners(n int) []NameCount {
	out := make([]NameCount, 0, len(s.Wins))
	for name, c := range s.Wins {
		out = append(out, NameCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s HistorySummary) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("races", s.TotalRaces),
		slog.Int("agents", s.TotalAgents),
		slog.Float64("avg_elapsed", s.AvgElapsedSec),
	}
	if top := s.TopWinners(1); len(top) == 1 {
		attrs = append(attrs,
			slog.String("top_winner", top[0].Name),
			slog.Int("top_wins", top[0].Count),
		)
	}
	return slog.GroupValue(attrs...)
}
