package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/celllife/config"
)

// csvTable is one append-only CSV file whose header is written with the first batch.
type csvTable struct {
	name          string
	file          *os.File
	headerWritten bool
}

func openTable(dir, name string) (*csvTable, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvTable{name: name, file: f}, nil
}

// write appends records, which must be a slice of csv-tagged structs.
func (t *csvTable) write(records any) error {
	if t == nil {
		return os.ErrClosed
	}
	if !t.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, t.file); err != nil {
			return fmt.Errorf("writing %s: %w", t.name, err)
		}
		t.headerWritten = true
		return nil
	}
	// Subsequent writes skip headers
	if err := gocsv.MarshalWithoutHeaders(records, t.file); err != nil {
		return fmt.Errorf("writing %s: %w", t.name, err)
	}
	return nil
}

// OutputManager handles structured experiment output with CSV logging.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvTable
	perf      *csvTable
	deaths    *csvTable
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
	if om.telemetry, err = openTable(dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = openTable(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.deaths, err = openTable(dir, "deaths.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write([]WindowStats{stats})
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd uint64) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteDeaths appends death records to deaths.csv.
func (om *OutputManager) WriteDeaths(records []DeathRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	return om.deaths.write(records)
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

	var errs []error
	for _, t := range []**csvTable{&om.telemetry, &om.perf, &om.deaths} {
		if *t == nil {
			continue
		}
		if err := (*t).file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", (*t).name, err))
		}
		*t = nil
	}
	return errors.Join(errs...)
}
