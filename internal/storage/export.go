package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/sim"
)

type ExportData struct {
	Model      string               `json:"model"`
	Integrator string               `json:"integrator"`
	Controller string               `json:"controller"`
	Dt         float64              `json:"dt"`
	Duration   float64              `json:"duration"`
	Steps      int                  `json:"steps"`
	Times      []float64            `json:"times"`
	Temps      [][]float64          `json:"temperatures"` // °C, top layer first
	Inputs     []map[string]float64 `json:"inputs"`
	Metrics    map[string]float64   `json:"metrics"`
}

func NewExportData(cfg *config.Config, result *sim.Result) ExportData {
	data := ExportData{
		Model:      cfg.Model,
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Steps:      result.StepsTaken,
		Times:      result.Times,
		Temps:      make([][]float64, len(result.States)),
		Inputs:     make([]map[string]float64, len(result.Inputs)),
		Metrics:    result.Metrics,
	}

	for i, s := range result.States {
		data.Temps[i] = s.Celsius()
	}
	for i, in := range result.Inputs {
		data.Inputs[i] = in
	}
	return data
}

// ExportJSON writes the run as indented JSON.
func ExportJSON(w io.Writer, cfg *config.Config, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(cfg, result))
}

// ExportStored re-exports a saved run from its metadata and CSV.
func (s *Store) ExportStored(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Model:      meta.Model,
		Integrator: meta.Integrator,
		Controller: meta.Controller,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      meta.Steps,
		Times:      times,
		Temps:      states,
		Metrics:    meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
