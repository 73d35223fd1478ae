package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLists(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"dhwh", "tank"}, r.ListModels())
	assert.Equal(t, []string{"always_on", "hysteresis", "none", "pid"}, r.ListControllers())
}

func TestPresetsRun(t *testing.T) {
	r := NewRegistry()
	for _, model := range config.Models() {
		for _, name := range config.ListPresets(model) {
			t.Run(model+"/"+name, func(t *testing.T) {
				cfg := config.GetPreset(model, name)
				cfg.Duration = 2 * 3600

				exp := New(cfg)
				require.NoError(t, exp.Setup(r))

				res, err := exp.Run(context.Background())
				require.NoError(t, err)
				assert.Equal(t, 120, res.StepsTaken)
				assert.True(t, res.Final().IsValid())
				assert.Contains(t, res.Metrics, "stored_energy")
			})
		}
	}
}

func TestAlwaysOnHeats(t *testing.T) {
	cfg := config.GetPreset(config.ModelDHWH, "always_on")
	cfg.Duration = 3600

	exp := New(cfg)
	require.NoError(t, exp.Setup(NewRegistry()))
	before := exp.Model().Energy()

	res, err := exp.Run(context.Background())
	require.NoError(t, err)

	// one hour at 2 kW
	assert.InDelta(t, 2.0, res.Metrics["heater_energy"], 1e-9)
	gained := exp.Model().Energy() - before
	assert.Greater(t, gained, 1.9)
	assert.Less(t, gained, 2.0)
}

func TestTankPIDLimitsFlow(t *testing.T) {
	cfg := config.GetPreset(config.ModelTank, "regulated")
	cfg.Duration = 6 * 3600

	exp := New(cfg)
	require.NoError(t, exp.Setup(NewRegistry()))

	res, err := exp.Run(context.Background())
	require.NoError(t, err)

	for _, in := range res.Inputs {
		assert.Equal(t, in["inlet_flow_hp"], in["outlet_flow_hp"])
		assert.LessOrEqual(t, in["inlet_flow_hp"], cfg.Profile.HPFlow)
		assert.GreaterOrEqual(t, in["inlet_flow_hp"], 0.0)
	}
	assert.Greater(t, res.Series("T_0")[len(res.Outputs)-1], 40.0)
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = -1

	err := New(cfg).Setup(NewRegistry())
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}

func TestRunWithoutSetup(t *testing.T) {
	_, err := New(config.DefaultConfig()).Run(context.Background())
	assert.Error(t, err)
}
