// Package paramserver owns the on-disk parameter surface described in
// spec §4.6: a YAML file holding the full Settings bundle, loaded at
// startup and optionally re-watched for live edits. Grounded on the
// teacher's experiment.Config, which also round-trips a tuning bundle
// through YAML (gopkg.in/yaml.v3) and on the dynamic side, wires in
// fsnotify the way the teacher's internal/watch package does for hot
// reloading a scenario file mid-run.
package paramserver

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/IhabMohamed/mppic/internal/mppi"
)

// document is the on-disk shape of the parameter file. Field names are
// snake_case to match the parameter surface's external naming (spec §6)
// rather than Settings' Go-idiomatic field names.
type document struct {
	ModelDt              float64 `yaml:"model_dt"`
	TimeSteps            int     `yaml:"time_steps"`
	BatchSize            int     `yaml:"batch_size"`
	IterationCount       int     `yaml:"iteration_count"`
	Temperature          float64 `yaml:"temperature"`
	RetryAttemptLimit    int     `yaml:"retry_attempt_limit"`
	ShiftControlSequence bool    `yaml:"shift_control_sequence"`
	MotionModel          string  `yaml:"motion_model"`
	MinTurningRadius     float64 `yaml:"min_turning_radius"`

	BaseConstraints constraintsDoc `yaml:"base_constraints"`
	SamplingStd     stdDoc         `yaml:"sampling_std"`
}

type constraintsDoc struct {
	Vx float64 `yaml:"vx"`
	Vy float64 `yaml:"vy"`
	Wz float64 `yaml:"wz"`
}

type stdDoc struct {
	Vx float64 `yaml:"vx"`
	Vy float64 `yaml:"vy"`
	Wz float64 `yaml:"wz"`
}

func toDocument(s mppi.Settings) document {
	return document{
		ModelDt:              s.ModelDt,
		TimeSteps:            s.TimeSteps,
		BatchSize:            s.BatchSize,
		IterationCount:       s.IterationCount,
		Temperature:          s.Temperature,
		RetryAttemptLimit:    s.RetryAttemptLimit,
		ShiftControlSequence: s.ShiftControlSequence,
		MotionModel:          s.MotionModelName,
		MinTurningRadius:     s.MinTurningRadius,
		BaseConstraints:      constraintsDoc{Vx: s.BaseConstraints.Vx, Vy: s.BaseConstraints.Vy, Wz: s.BaseConstraints.Wz},
		SamplingStd:          stdDoc{Vx: s.SamplingStd.Vx, Vy: s.SamplingStd.Vy, Wz: s.SamplingStd.Wz},
	}
}

func (d document) toSettings() mppi.Settings {
	base := mppi.Constraints{Vx: d.BaseConstraints.Vx, Vy: d.BaseConstraints.Vy, Wz: d.BaseConstraints.Wz}
	return mppi.Settings{
		ModelDt:              d.ModelDt,
		TimeSteps:            d.TimeSteps,
		BatchSize:            d.BatchSize,
		IterationCount:       d.IterationCount,
		Temperature:          d.Temperature,
		BaseConstraints:      base,
		Constraints:          base,
		SamplingStd:          mppi.Std{Vx: d.SamplingStd.Vx, Vy: d.SamplingStd.Vy, Wz: d.SamplingStd.Wz},
		RetryAttemptLimit:    d.RetryAttemptLimit,
		ShiftControlSequence: d.ShiftControlSequence,
		MotionModelName:      d.MotionModel,
		MinTurningRadius:     d.MinTurningRadius,
	}
}

// Load reads and validates a Settings bundle from a YAML file at path.
func Load(path string) (mppi.Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return mppi.Settings{}, fmt.Errorf("paramserver: read %s: %w", path, err)
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return mppi.Settings{}, fmt.Errorf("paramserver: parse %s: %w", path, err)
	}
	s := doc.toSettings()
	if err := s.Validate(); err != nil {
		return mppi.Settings{}, err
	}
	return s, nil
}

// Save writes s back to path as YAML, for a CLI or dashboard that edits
// parameters and wants to persist the change.
func Save(path string, s mppi.Settings) error {
	raw, err := yaml.Marshal(toDocument(s))
	if err != nil {
		return fmt.Errorf("paramserver: marshal settings: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("paramserver: write %s: %w", path, err)
	}
	return nil
}

// ReloadFunc is invoked with the newly loaded, already-validated Settings
// every time the watched file changes. Static parameters (those spec §4.6
// marks read-once) are expected to be compared against the previous value
// by the caller; ReloadFunc itself always receives the full bundle.
type ReloadFunc func(mppi.Settings)

// Watcher re-reads a parameter file on every write and hands the result to
// a callback, the dynamic half of spec §4.6's static/dynamic parameter
// split. Grounded on the teacher's internal/watch.Watcher, which does the
// same fsnotify-driven reload for a live scenario file. Every write or
// create event triggers its own reload; events are not debounced.
type Watcher struct {
	path string
	fsw  *fsnotify.Watcher
	stop chan struct{}
	wg   sync.WaitGroup

	onReload ReloadFunc
	onError  func(error)
}

// NewWatcher starts watching path and delivers every subsequent valid
// reload to onReload. Parse or validation failures on a reload are
// reported to onError (if non-nil) rather than crashing the watch loop,
// so a momentarily malformed edit (mid-save) doesn't take the controller
// down.
func NewWatcher(path string, onReload ReloadFunc, onError func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("paramserver: create watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("paramserver: watch %s: %w", path, err)
	}

	w := &Watcher{
		path:     path,
		fsw:      fsw,
		stop:     make(chan struct{}),
		onReload: onReload,
		onError:  onError,
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s, err := Load(w.path)
			if err != nil {
				if w.onError != nil {
					w.onError(err)
				}
				continue
			}
			w.onReload(s)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// Close stops the watch loop and releases the underlying fsnotify handle.
func (w *Watcher) Close() error {
	close(w.stop)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
