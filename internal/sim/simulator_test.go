package sim_test

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/tanksim/internal/control"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/models"
	"github.com/san-kum/tanksim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// counter is a one-state component that fails after a fixed number of steps.
type counter struct {
	x      float64
	failAt int
	steps  int
}

func (c *counter) Name() string { return "counter" }

func (c *counter) Inputs() []string { return []string{"rate"} }

func (c *counter) Outputs() []string { return []string{"x"} }

func (c *counter) State() dynamo.State { return dynamo.State{c.x} }

func (c *counter) Step(t float64, in dynamo.Signals) (dynamo.Signals, error) {
	if c.failAt > 0 && c.steps == c.failAt {
		return nil, errBoom
	}
	c.steps++
	c.x += in["rate"]
	return dynamo.Signals{"x": c.x}, nil
}

type recorder struct{ calls int }

func (r *recorder) OnStep(x dynamo.State, in, out dynamo.Signals, t float64) { r.calls++ }

func TestRunRecordsTrajectory(t *testing.T) {
	c := &counter{}
	src := &sim.Profile{Constant: dynamo.Signals{"rate": 2}}
	s := sim.New(c, src, nil)
	rec := &recorder{}
	s.AddObserver(rec)

	res, err := s.Run(context.Background(), sim.Config{Dt: 1, Duration: 10})
	require.NoError(t, err)

	assert.Equal(t, 10, res.StepsTaken)
	assert.Len(t, res.States, 11)
	assert.Len(t, res.Inputs, 10)
	assert.Equal(t, 10, rec.calls)
	assert.Equal(t, 0.0, res.States[0][0])
	assert.Equal(t, 20.0, res.Final()[0])
	assert.Equal(t, 10.0, res.Times[10])
	assert.Equal(t, 20.0, res.Series("x")[10])
}

func TestRunStopsOnStepError(t *testing.T) {
	c := &counter{failAt: 5}
	s := sim.New(c, &sim.Profile{Constant: dynamo.Signals{"rate": 1}}, nil)

	res, err := s.Run(context.Background(), sim.Config{Dt: 1, Duration: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)

	var stepErr *dynamo.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 5, stepErr.Step)
	assert.Equal(t, "counter", stepErr.Component)

	assert.Equal(t, 5, res.StepsTaken)
	assert.Equal(t, 5.0, c.State()[0])
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := sim.New(&counter{}, nil, nil)
	_, err := s.Run(ctx, sim.Config{Dt: 1, Duration: 10})
	assert.ErrorIs(t, err, dynamo.ErrContextCanceled)
}

func TestRunRejectsBadConfig(t *testing.T) {
	s := sim.New(&counter{}, nil, nil)

	_, err := s.Run(context.Background(), sim.Config{Dt: 0, Duration: 10})
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)

	_, err = s.Run(context.Background(), sim.Config{Dt: 1, Duration: -1})
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}

func TestProfileDraws(t *testing.T) {
	p := &sim.Profile{
		Constant:  dynamo.Signals{"inlet_temp": 10},
		DrawPorts: []string{"a", "b"},
		Draws: []sim.Draw{
			{Start: 100, Duration: 50, Flow: 0.1},
			{Start: 120, Duration: 10, Flow: 0.05},
		},
		Period: 1000,
	}

	in := p.Inputs(0)
	assert.Equal(t, 0.0, in["a"])
	assert.Equal(t, 10.0, in["inlet_temp"])

	in = p.Inputs(110)
	assert.Equal(t, 0.1, in["a"])
	assert.Equal(t, 0.1, in["b"])

	assert.InDelta(t, 0.15, p.Inputs(125)["a"], 1e-12)
	assert.Equal(t, 0.0, p.Inputs(150)["a"])
	assert.Equal(t, 0.1, p.Inputs(1110)["a"])

	assert.InDelta(t, 0.1*50+0.05*10, p.DrawnMass(1000, 1), 1e-9)
}

func TestDHWHeaterWithHysteresis(t *testing.T) {
	heater, err := models.NewDHWHeater("dhwh", models.DefaultDHWHeaterParams())
	require.NoError(t, err)

	src := &sim.Profile{Constant: dynamo.Signals{
		models.OutletFlow:  0,
		models.InletTemp:   10,
		models.AmbientTemp: 20,
	}}
	ctrl := control.NewHysteresis(models.WellTemp, models.HeaterState, 55, 5, 0)

	s := sim.New(heater, src, ctrl)
	before := heater.Energy()

	res, err := s.Run(context.Background(), sim.Config{Dt: 60, Duration: 24 * 3600})
	require.NoError(t, err)
	assert.Equal(t, 1440, res.StepsTaken)

	sawOn, sawOffAfterOn := false, false
	for _, in := range res.Inputs {
		if in[models.HeaterState] == 1 {
			sawOn = true
		} else if sawOn {
			sawOffAfterOn = true
		}
	}
	assert.True(t, sawOn)
	assert.True(t, sawOffAfterOn)
	assert.Greater(t, heater.Energy(), before)
}
