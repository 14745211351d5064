package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Log is a replay log as stored on disk.
type Log struct {
	RaceID      string  `json:"race_id"`
	TrackLength float64 `json:"track_length"`
	Frames      []Frame `json:"frames"`
}

// Save writes a replay log to dir as replay_<race id>.json.
// Returns the filepath where it was saved.
func Save(log *Log, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create replay dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("replay_%s.json", log.RaceID))

	data, err := json.Marshal(log)
	if err != nil {
		return "", fmt.Errorf("marshal replay: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write replay: %w", err)
	}

	return path, nil
}

// Load reads a replay log from disk.
func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}

	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("unmarshal replay: %w", err)
	}

	return &log, nil
}
