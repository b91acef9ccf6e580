package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/driftloop/config"
)

// StandingRecord is one standings.csv row: a racer's place at a window end.
type StandingRecord struct {
	WindowEnd       int32   `csv:"window_end"`
	Position        int     `csv:"position"`
	Number          int     `csv:"number"`
	Name            string  `csv:"name"`
	Player          bool    `csv:"player"`
	Laps            int     `csv:"laps"`
	WaypointsPassed int     `csv:"waypoints_passed"`
	BestLap         float64 `csv:"best_lap"`
	LastLap         float64 `csv:"last_lap"`
	DriftScore      float64 `csv:"drift_score"`
}

// csvFile is an output file whose header is written with the first batch.
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

// OutputManager writes run output: config.yaml plus one CSV per record type.
type OutputManager struct {
	dir       string
	telemetry *csvFile
	standings *csvFile
	perf      *csvFile
}

// NewOutputManager creates dir and the CSV files in it.
// Returns nil if dir is empty (output disabled); every method is nil-safe.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, out := range []struct {
		name string
		dst  **csvFile
	}{
		{"telemetry.csv", &om.telemetry},
		{"standings.csv", &om.standings},
		{"perf.csv", &om.perf},
	} {
		f, err := os.Create(filepath.Join(dir, out.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", out.name, err)
		}
		*out.dst = &csvFile{f: f}
	}
	return om, nil
}

// WriteConfig saves the effective configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WriteStandings appends the standings at a window end to standings.csv.
func (om *OutputManager) WriteStandings(rows []StandingRecord) error {
	if om == nil || len(rows) == 0 {
		return nil
	}
	if err := om.standings.write(rows); err != nil {
		return fmt.Errorf("writing standings: %w", err)
	}
	return nil
}

// WritePerf appends a perf row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files, returning the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, c := range []*csvFile{om.telemetry, om.standings, om.perf} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
