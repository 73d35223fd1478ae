package models

import (
	"fmt"
	"strings"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/tes"
)

// tank is the part shared by the facades: an engine plus Celsius conversion.
type tank struct {
	name   string
	engine *tes.Engine
}

func newTank(name string, p tes.Params, dt float64, initialC []float64, integ dynamo.Integrator) (tank, error) {
	if name == "" {
		return tank{}, &dynamo.ConfigError{Field: "name", Value: name, Reason: "must not be empty"}
	}
	e, err := tes.NewEngine(p, dt, dynamo.ToKelvin(initialC), integ)
	if err != nil {
		return tank{}, err
	}
	return tank{name: name, engine: e}, nil
}

func (t *tank) Name() string { return t.name }

// State returns the layer temperatures in Kelvin.
func (t *tank) State() dynamo.State { return t.engine.State() }

// Temperatures returns the layer temperatures in Celsius, top layer first.
func (t *tank) Temperatures() []float64 { return t.engine.State().Celsius() }

func (t *tank) Engine() *tes.Engine { return t.engine }

func (t *tank) Geometry() *tes.Geometry { return t.engine.Geometry() }

// Energy returns the stored heat above 0 °C in kWh.
func (t *tank) Energy() float64 {
	return t.Geometry().Energy(t.engine.State(), dynamo.ZeroCelsius) / 3.6e6
}

func (t *tank) GetParams() map[string]float64 {
	p := t.engine.Params()
	return map[string]float64{
		"volume":        p.Volume,
		"diameter":      p.Diameter,
		"u":             p.U,
		"k_low":         p.KLow,
		"k_high":        p.KHigh,
		"heater_power":  p.HeaterPower,
		"heater_height": p.HeaterHeight,
	}
}

// SetParam rebuilds the engine with one parameter changed, keeping the
// current temperatures.
func (t *tank) SetParam(name string, value float64) error {
	p := t.engine.Params()
	switch strings.ToLower(name) {
	case "volume":
		p.Volume = value
	case "diameter":
		p.Diameter = value
	case "u":
		p.U = value
	case "k_low":
		p.KLow = value
	case "k_high":
		p.KHigh = value
	case "heater_power":
		p.HeaterPower = value
	case "heater_height":
		p.HeaterHeight = value
	default:
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrConfiguration, name)
	}

	e, err := tes.NewEngine(p, t.engine.Dt(), t.engine.State(), t.engine.Integrator())
	if err != nil {
		return err
	}
	t.engine = e
	return nil
}

func layerOutputs(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = layerName(i)
	}
	return names
}

func layerName(i int) string { return fmt.Sprintf("T_%d", i) }

func requireAll(in dynamo.Signals, names []string) ([]float64, error) {
	vals := make([]float64, len(names))
	for i, name := range names {
		v, err := in.Require(name)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
