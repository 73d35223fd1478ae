package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Layers     int                `json:"layers"`
	Steps      int                `json:"steps"`
	Inputs     []string           `json:"inputs"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run below the base directory. An empty name yields
// <model>_<unix nanoseconds>.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (string, error) {
	runID := name
	if runID == "" {
		runID = fmt.Sprintf("%s_%d", cfg.Model, time.Now().UnixNano())
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	inputs := inputNames(result)
	meta := RunMetadata{
		ID:         runID,
		Model:      cfg.Model,
		Timestamp:  time.Now(),
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
		Layers:     cfg.Tank.Layers,
		Steps:      result.StepsTaken,
		Inputs:     inputs,
		Metrics:    result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, "config.yaml"), cfg); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, "states.csv"), result, inputs); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeStates writes one row per recorded state: time, layer temperatures
// in °C, then the inputs that produced the state (zero on the first row).
func writeStates(path string, result *sim.Result, inputs []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if len(result.States) == 0 {
		return nil
	}

	w := csv.NewWriter(f)

	header := []string{"time"}
	for i := range result.States[0] {
		header = append(header, fmt.Sprintf("T_%d", i))
	}
	header = append(header, inputs...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, x := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, val := range x.Celsius() {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		for _, name := range inputs {
			val := 0.0
			if i > 0 && i-1 < len(result.Inputs) {
				val = result.Inputs[i-1][name]
			}
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func inputNames(result *sim.Result) []string {
	seen := make(map[string]bool)
	for _, in := range result.Inputs {
		for k := range in {
			seen[k] = true
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, "config.yaml"))
}

// LoadStates returns the layer temperatures in °C and their times.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 1+meta.Layers {
			return nil, nil, fmt.Errorf("%s: row %d has %d columns, want at least %d", runID, i, len(record), 1+meta.Layers)
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: row %d: %w", runID, i, err)
		}
		times = append(times, t)

		state := make([]float64, meta.Layers)
		for j := range state {
			val, err := strconv.ParseFloat(record[1+j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: row %d: %w", runID, i, err)
			}
			state[j] = val
		}
		states = append(states, state)
	}

	return states, times, nil
}
