package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Race.MinAgents != 10 || cfg.Race.MaxAgents != 1000 {
		t.Errorf("expected agent bounds [10, 1000], got [%d, %d]", cfg.Race.MinAgents, cfg.Race.MaxAgents)
	}
	if cfg.Replay.MaxFrames != 10000 {
		t.Errorf("expected 10000 replay frames, got %d", cfg.Replay.MaxFrames)
	}

	// 4.0 units/tick * 60 ticks/s * 30 s
	if cfg.Derived.TrackLength != 7200 {
		t.Errorf("expected track length 7200, got %f", cfg.Derived.TrackLength)
	}
	if cfg.Derived.Viewport != float64(cfg.Screen.Width) {
		t.Errorf("expected viewport to default to screen width, got %f", cfg.Derived.Viewport)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "race.yaml")
	data := []byte("race:\n  duration_sec: 10\ncamera:\n  finish_exit_progress: 0.9\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading user config: %v", err)
	}

	if cfg.Race.DurationSec != 10 {
		t.Errorf("expected duration 10, got %f", cfg.Race.DurationSec)
	}
	if cfg.Camera.FinishExitProgress != 0.9 {
		t.Errorf("expected exit progress 0.9, got %f", cfg.Camera.FinishExitProgress)
	}
	// Untouched fields keep their defaults
	if cfg.Agent.Damping != 0.08 {
		t.Errorf("expected default damping 0.08, got %f", cfg.Agent.Damping)
	}
	if cfg.Derived.TrackLength != 2400 {
		t.Errorf("expected derived track length 2400, got %f", cfg.Derived.TrackLength)
	}
}

func TestValidateRejectsUnstableDamping(t *testing.T) {
	for _, damping := range []float64{0, 1, 1.5, -0.1} {
		cfg := Default()
		cfg.Agent.Damping = damping
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("damping %f: expected ErrInvalidConfig, got %v", damping, err)
		}
	}
}

func TestValidateAgentBoundsOnlyNarrow(t *testing.T) {
	tests := []struct {
		min, max int
		ok       bool
	}{
		{10, 1000, true},
		{20, 500, true},
		{1, 1000, false},
		{9, 1000, false},
		{10, 1001, false},
		{1, 5000, false},
		{50, 40, false},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Race.MinAgents, cfg.Race.MaxAgents = tt.min, tt.max
		err := cfg.Validate()
		if tt.ok && err != nil {
			t.Errorf("[%d, %d]: unexpected error %v", tt.min, tt.max, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("[%d, %d]: expected ErrInvalidConfig, got %v", tt.min, tt.max, err)
		}
	}
}

func TestValidateHighlightSettings(t *testing.T) {
	cfg := Default()
	cfg.Ranking.HighlightThreshold = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("threshold 0: expected ErrInvalidConfig, got %v", err)
	}

	cfg = Default()
	cfg.Ranking.HighlightTopK = -1
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("top-k -1: expected ErrInvalidConfig, got %v", err)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Race.Names = []string{"Donald", "Daisy"}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if len(loaded.Race.Names) != 2 || loaded.Race.Names[1] != "Daisy" {
		t.Errorf("expected names to survive roundtrip, got %v", loaded.Race.Names)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Default()
	cfg.Race.Names = []string{"A"}

	cp := cfg.Clone()
	cp.Race.Names[0] = "B"
	cp.Race.TrackSpeed = 5

	if cfg.Race.Names[0] != "A" || cfg.Race.TrackSpeed != 4 {
		t.Error("clone shares state with original")
	}
}
