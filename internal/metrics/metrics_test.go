package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/tes"
)

func testGeometry(t *testing.T) *tes.Geometry {
	t.Helper()
	g, err := tes.NewGeometry(tes.Params{
		Volume:   2,
		Diameter: 1200,
		Layers:   3,
		U:        0.338,
		KLow:     tes.DefaultKLow,
		KHigh:    tes.DefaultKHigh,
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestStoredEnergy(t *testing.T) {
	g := testGeometry(t)
	m := NewStoredEnergy(g, 20)

	x := dynamo.ToKelvin([]float64{30, 30, 30})
	m.Observe(x, nil, 60)

	// 2000 kg * 4200 J/kgK * 10 K
	expected := 2000.0 * 4200 * 10 / 3.6e6
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected %f kWh, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	g := testGeometry(t)
	m := NewEnergyDrift(g)

	m.Observe(dynamo.ToKelvin([]float64{20, 20, 20}), nil, 0)
	m.Observe(dynamo.ToKelvin([]float64{20, 20, 20}), nil, 60)
	if m.Value() != 0 {
		t.Errorf("expected no drift, got %g", m.Value())
	}

	m.Observe(dynamo.ToKelvin([]float64{21, 21, 21}), nil, 120)
	expected := 1.0 / 293.15
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected drift %g, got %g", expected, m.Value())
	}
}

func TestEnergyDriftComparesConsecutiveStates(t *testing.T) {
	g := testGeometry(t)
	m := NewEnergyDrift(g)

	// a steady 1 K rise per step never drifts more than one step's worth
	for i, c := range []float64{20, 21, 22, 23} {
		m.Observe(dynamo.ToKelvin([]float64{c, c, c}), nil, float64(i)*60)
	}
	expected := 1.0 / 293.15
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected drift %g, got %g", expected, m.Value())
	}

	m.Reset()
	m.Observe(dynamo.ToKelvin([]float64{40, 40, 40}), nil, 0)
	if m.Value() != 0 {
		t.Errorf("expected no drift after a single sample, got %g", m.Value())
	}
}

func TestHeaterEnergy(t *testing.T) {
	m := NewHeaterEnergy("heater_state", 2000)

	m.Observe(nil, dynamo.Signals{"heater_state": 1}, 60)
	m.Observe(nil, dynamo.Signals{"heater_state": 0}, 120)
	m.Observe(nil, dynamo.Signals{"heater_state": 1}, 180)

	// two minutes at 2 kW
	expected := 2000.0 * 120 / 3.6e6
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected %g kWh, got %g", expected, m.Value())
	}

	m.Reset()
	m.Observe(nil, dynamo.Signals{"heater_state": 1}, 60)
	if math.Abs(m.Value()-2000.0*60/3.6e6) > 1e-12 {
		t.Errorf("reset did not restart the clock: %g", m.Value())
	}
}

func TestStratification(t *testing.T) {
	m := NewStratification()
	if m.Value() != 1.0 {
		t.Error("expected 1 with no samples")
	}

	m.Observe(dynamo.State{330, 320, 310}, nil, 0)
	m.Observe(dynamo.State{320, 330, 310}, nil, 1)

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
	if m.Inversions() != 1 {
		t.Errorf("expected 1 inversion, got %d", m.Inversions())
	}
}

func TestComfort(t *testing.T) {
	m := NewComfort("outlet_flow", 45)
	if m.Value() != 1.0 {
		t.Error("expected full comfort with no draws")
	}

	hot := dynamo.ToKelvin([]float64{50, 40})
	cold := dynamo.ToKelvin([]float64{40, 30})

	m.Observe(hot, dynamo.Signals{"outlet_flow": 0.1}, 60)
	m.Observe(cold, dynamo.Signals{"outlet_flow": 0}, 120)
	m.Observe(cold, dynamo.Signals{"outlet_flow": 0.3}, 180)

	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected 0.25, got %f", m.Value())
	}
}
