package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
name: morning
description: heater versus no heater
steps:
  - model: dhwh
    duration: 7200
    params:
      k_high: 5000
    save_as: heated
  - model: dhwh
    preset: no_heater
    duration: 7200
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "morning", sc.Name)
	require.Len(t, sc.Steps, 2)

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "heated", results[0].Name)
	assert.Equal(t, "morning_step2", results[1].Name)
	assert.Equal(t, 5000.0, results[0].Config.Tank.KHigh)
	assert.Equal(t, config.ControllerNone, results[1].Config.Controller)
	assert.Equal(t, 120, results[1].Result.StepsTaken)
}

func TestScenarioStepErrors(t *testing.T) {
	_, err := ScenarioStep{Model: "dhwh", Preset: "missing"}.Config()
	assert.Error(t, err)

	_, err = ScenarioStep{Model: "dhwh", Params: map[string]float64{"mass": 1}}.Config()
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)

	_, err = LoadScenario(writeScenario(t, "name: empty\n"))
	assert.Error(t, err)
}

func TestRunScenarioStopsOnBadStep(t *testing.T) {
	sc := &Scenario{Name: "bad", Steps: []ScenarioStep{
		{Model: "dhwh", Duration: 600},
		{Model: "dhwh", Duration: 600, Integrator: "leapfrog"},
	}}

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry())
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
	assert.Len(t, results, 1)
}

func TestSweepValues(t *testing.T) {
	s := &ParameterSweep{ParamMin: 1, ParamMax: 2, NumSteps: 5}
	assert.Equal(t, []float64{1, 1.25, 1.5, 1.75, 2}, s.Values())

	s.NumSteps = 1
	assert.Equal(t, []float64{1}, s.Values())
}

func TestRunSweepLossCoefficient(t *testing.T) {
	base := config.GetPreset(config.ModelTank, "idle")
	base.Duration = config.Day

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "u",
		ParamMin:  0.2,
		ParamMax:  2,
		NumSteps:  4,
		Workers:   2,
	}, experiment.NewRegistry())
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i := 1; i < len(results); i++ {
		assert.Greater(t, results[i].ParamValue, results[i-1].ParamValue)
		assert.Less(t, results[i].Metrics["stored_energy"], results[i-1].Metrics["stored_energy"])
	}
	assert.Equal(t, 0.338, base.Tank.U, "sweep must not modify the base config")
}

func TestRunSweepErrors(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 600
	r := experiment.NewRegistry()

	_, err := RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "gravity", NumSteps: 2}, r)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)

	_, err = RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "u", NumSteps: 0}, r)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)

	// a negative loss coefficient is rejected at setup
	_, err = RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "u", ParamMin: -1, ParamMax: 1, NumSteps: 2}, r)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 8 * 3600

	cfg := &MonteCarloConfig{Base: base, Perturbation: 0.5, NumTrials: 6, Seed: 42, Workers: 3}
	results, err := RunMonteCarlo(context.Background(), cfg, experiment.NewRegistry())
	require.NoError(t, err)
	require.Len(t, results, 6)

	again, err := RunMonteCarlo(context.Background(), cfg, experiment.NewRegistry())
	require.NoError(t, err)

	for i, r := range results {
		assert.Equal(t, i, r.TrialID)
		assert.GreaterOrEqual(t, r.DrawScale, 0.5)
		assert.LessOrEqual(t, r.DrawScale, 1.5)
		assert.GreaterOrEqual(t, r.Comfort, 0.0)
		assert.LessOrEqual(t, r.Comfort, 1.0)
		assert.Equal(t, r.DrawScale, again[i].DrawScale)
		assert.Equal(t, r.FinalTemps, again[i].FinalTemps)
	}

	ok, bad := MonteCarloStats(results)
	assert.Equal(t, len(results), ok+bad)
}
