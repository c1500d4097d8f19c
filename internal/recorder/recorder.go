// Package recorder persists per-tick controller telemetry to disk, for
// offline plotting and post-mortem debugging of a run. Grounded on the
// teacher's internal/storage.Store: one run directory per session holding
// a JSON metadata file plus a CSV time series, reworked here to log one
// row per EvalControl tick instead of one row per simulated state.
package recorder

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/IhabMohamed/mppic/internal/mppi"
)

// RunMetadata describes one recorded controller session.
type RunMetadata struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Seed      uint64       `json:"seed"`
	Settings  mppi.Settings `json:"settings"`
	TickCount int          `json:"tick_count"`
}

// Tick is one row of per-tick telemetry: the pose the controller was at,
// the command it issued, the winning sample's cost, and whether that
// tick's critic pipeline raised FailFlag.
type Tick struct {
	Time     float64
	Pose     [3]float64
	Command  [3]float64
	MinCost  float64
	FailFlag bool
}

// Recorder accumulates Ticks for one run and flushes them to a run
// directory under baseDir on Flush.
type Recorder struct {
	baseDir string
	runID   string
	seed    uint64
	settings mppi.Settings
	ticks   []Tick
}

// New creates a Recorder for a run seeded with seed, using settings as the
// metadata snapshot to persist alongside the tick log.
func New(baseDir string, seed uint64, settings mppi.Settings) *Recorder {
	return &Recorder{
		baseDir:  baseDir,
		runID:    fmt.Sprintf("mppi_%d", time.Now().Unix()),
		seed:     seed,
		settings: settings,
	}
}

// RunID returns the directory name this run will be written under.
func (r *Recorder) RunID() string { return r.runID }

// Record appends one tick's telemetry to the in-memory buffer.
func (r *Recorder) Record(tick Tick) {
	r.ticks = append(r.ticks, tick)
}

// Flush writes metadata.json and ticks.csv under baseDir/runID, creating
// the directory if needed.
func (r *Recorder) Flush() error {
	runDir := filepath.Join(r.baseDir, r.runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("recorder: mkdir %s: %w", runDir, err)
	}

	meta := RunMetadata{
		ID:        r.runID,
		Timestamp: time.Now(),
		Seed:      r.seed,
		Settings:  r.settings,
		TickCount: len(r.ticks),
	}
	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return fmt.Errorf("recorder: create metadata.json: %w", err)
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("recorder: write metadata.json: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, "ticks.csv"))
	if err != nil {
		return fmt.Errorf("recorder: create ticks.csv: %w", err)
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "x", "y", "yaw", "cmd_vx", "cmd_vy", "cmd_wz", "min_cost", "fail_flag"}); err != nil {
		return fmt.Errorf("recorder: write header: %w", err)
	}
	for _, t := range r.ticks {
		row := []string{
			strconv.FormatFloat(t.Time, 'f', 6, 64),
			strconv.FormatFloat(t.Pose[0], 'f', 6, 64),
			strconv.FormatFloat(t.Pose[1], 'f', 6, 64),
			strconv.FormatFloat(t.Pose[2], 'f', 6, 64),
			strconv.FormatFloat(t.Command[0], 'f', 6, 64),
			strconv.FormatFloat(t.Command[1], 'f', 6, 64),
			strconv.FormatFloat(t.Command[2], 'f', 6, 64),
			strconv.FormatFloat(t.MinCost, 'f', 6, 64),
			strconv.FormatBool(t.FailFlag),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("recorder: write row: %w", err)
		}
	}
	return nil
}

// Load reads back a run's metadata by ID, for the CLI's list/plot
// subcommands.
func Load(baseDir, runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("recorder: read metadata: %w", err)
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("recorder: parse metadata: %w", err)
	}
	return &meta, nil
}

// LoadTicks reads back a run's tick log by ID.
func LoadTicks(baseDir, runID string) ([]Tick, error) {
	file, err := os.Open(filepath.Join(baseDir, runID, "ticks.csv"))
	if err != nil {
		return nil, fmt.Errorf("recorder: open ticks.csv: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("recorder: read ticks.csv: %w", err)
	}
	if len(records) < 2 {
		return []Tick{}, nil
	}

	ticks := make([]Tick, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != 9 {
			continue
		}
		t := Tick{}
		t.Time, _ = strconv.ParseFloat(rec[0], 64)
		t.Pose[0], _ = strconv.ParseFloat(rec[1], 64)
		t.Pose[1], _ = strconv.ParseFloat(rec[2], 64)
		t.Pose[2], _ = strconv.ParseFloat(rec[3], 64)
		t.Command[0], _ = strconv.ParseFloat(rec[4], 64)
		t.Command[1], _ = strconv.ParseFloat(rec[5], 64)
		t.Command[2], _ = strconv.ParseFloat(rec[6], 64)
		t.MinCost, _ = strconv.ParseFloat(rec[7], 64)
		t.FailFlag, _ = strconv.ParseBool(rec[8])
		ticks = append(ticks, t)
	}
	return ticks, nil
}
