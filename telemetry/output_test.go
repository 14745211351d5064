package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/duckrace/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v %v", om, err)
	}
	// Nil manager methods are no-ops
	if err := om.WriteResult(ResultRecord{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := om.WriteTelemetry(FieldStats{RaceID: "r", Tick: i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteHighlights([]HighlightRecord{
		{RaceID: "r", AgentID: 4, FromRank: 5, ToRank: 1, Message: "Duck #4 moved up 4 places! Now rank 1"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "race_id,tick") {
		t.Errorf("unexpected header %q", lines[0])
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config.yaml: %v", err)
	}
}

func TestResultsAppendAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	runs := []ResultRecord{
		{RaceID: "a", WinnerName: "Quackers", SecondName: "Duck #2", ThirdName: "Puddles", AgentCount: 10, ElapsedSec: 20},
		{RaceID: "b", WinnerName: "Puddles", SecondName: "Quackers", ThirdName: "Duck #9", AgentCount: 30, ElapsedSec: 30},
		{RaceID: "c", WinnerName: "Quackers", SecondName: "Puddles", AgentCount: 20, ElapsedSec: 25},
	}
	for _, r := range runs {
		om, err := NewOutputManager(dir)
		if err != nil {
			t.Fatal(err)
		}
		if err := om.WriteResult(r); err != nil {
			t.Fatal(err)
		}
		om.Close()
	}

	records, err := LoadResults(filepath.Join(dir, ResultsFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	s := Summarize(records)
	if s.TotalRaces != 3 || s.TotalAgents != 60 {
		t.Errorf("unexpected totals %+v", s)
	}
	if s.AvgElapsedSec != 25 {
		t.Errorf("expected avg elapsed 25, got %v", s.AvgElapsedSec)
	}
	if s.Wins["Quackers"] != 2 || s.Podiums["Puddles"] != 3 {
		t.Errorf("unexpected tallies wins=%v podiums=%v", s.Wins, s.Podiums)
	}
	if s.LastRaceID != "c" {
		t.Errorf("expected last race c, got %s", s.LastRaceID)
	}

	top := s.TopWinners(5)
	if len(top) != 2 || top[0].Name != "Quackers" || top[1].Name != "Puddles" {
		t.Errorf("unexpected top winners %+v", top)
	}
}

func TestLoadResultsMissing(t *testing.T) {
	records, err := LoadResults(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil || len(records) != 0 {
		t.Errorf("expected empty history, got %v %v", records, err)
	}
}
