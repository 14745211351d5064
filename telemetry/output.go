package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/duckrace/config"
)

// ResultsFile is the name of the persistent race history file.
const ResultsFile = "results.csv"

// HighlightRecord is one highlight as written to highlights.csv.
type HighlightRecord struct {
	RaceID     string  `csv:"race_id"`
	ElapsedSec float64 `csv:"elapsed"`
	AgentID    int     `csv:"agent_id"`
	FromRank   int     `csv:"from_rank"`
	ToRank     int     `csv:"to_rank"`
	Message    string  `csv:"message"`
}

// csvFile is an output file that writes its header once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles race output: per-run CSV logs plus the
// append-only results history.
type OutputManager struct {
	dir        string
	telemetry  *csvFile
	perf       *csvFile
	highlights *csvFile
	results    *csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	var err error
	if om.telemetry, err = createCSV(dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = createCSV(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.highlights, err = createCSV(dir, "highlights.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.results, err = appendCSV(dir, ResultsFile); err != nil {
		om.Close()
		return nil, err
	}

	return om, nil
}

func createCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{f: f}, nil
}

// appendCSV opens name for appending; the header is skipped when the file already has content.
func appendCSV(dir, name string) (*csvFile, error) {
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	return &csvFile{f: f, headerWritten: info.Size() > 0}, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a field stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats FieldStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]FieldStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, tick int) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(tick)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteHighlights writes highlight records to highlights.csv.
func (om *OutputManager) WriteHighlights(records []HighlightRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if err := om.highlights.write(records); err != nil {
		return fmt.Errorf("writing highlights: %w", err)
	}
	return nil
}

// WriteResult appends a finished race to results.csv.
func (om *OutputManager) WriteResult(r ResultRecord) error {
	if om == nil {
		return nil
	}
	if err := om.results.write([]ResultRecord{r}); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}

// ResultsPath returns the path of results.csv.
func (om *OutputManager) ResultsPath() string {
	if om == nil {
		return ""
	}
	return filepath.Join(om.dir, ResultsFile)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.telemetry, om.perf, om.highlights, om.results} {
		if c == nil || c.f == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
