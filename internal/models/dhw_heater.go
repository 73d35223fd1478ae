package models

import (
	"fmt"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/tes"
)

// Ports of DHWHeater.
const (
	OutletFlow  = "outlet_flow"
	InletTemp   = "inlet_temp"
	HeaterState = "heater_state"

	TopTemp  = "T_0"
	WellTemp = "T_tw"
)

var dhwHeaterInputs = []string{OutletFlow, InletTemp, AmbientTemp, HeaterState}

type DHWHeaterParams struct {
	Tank         tes.Params
	Dt           float64
	InitialTemps []float64 // °C
	Integrator   dynamo.Integrator
}

// DefaultDHWHeaterParams describes a 100 l electric water heater with a 2 kW
// element reaching 300 mm into the tank.
func DefaultDHWHeaterParams() DHWHeaterParams {
	initial := make([]float64, 10)
	for i := range initial {
		initial[i] = 40
	}
	return DHWHeaterParams{
		Tank: tes.Params{
			Volume:       0.1,
			Diameter:     400,
			Layers:       10,
			U:            0.766,
			KLow:         8.2,
			KHigh:        tes.DefaultKHigh,
			HeaterPower:  2000,
			HeaterHeight: 300,
		},
		Dt:           60,
		InitialTemps: initial,
	}
}

type DHWHeaterOutput struct {
	Top  float64 // °C
	Well float64 // °C, thermal-well layer
}

// DHWHeater is an electric domestic-hot-water heater. Hot water leaves the
// top layer and the same mass of fresh water enters the bottom.
type DHWHeater struct {
	tank
}

func NewDHWHeater(name string, p DHWHeaterParams) (*DHWHeater, error) {
	t, err := newTank(name, p.Tank, p.Dt, p.InitialTemps, p.Integrator)
	if err != nil {
		return nil, err
	}
	return &DHWHeater{tank: t}, nil
}

func (h *DHWHeater) Inputs() []string { return append([]string(nil), dhwHeaterInputs...) }

func (h *DHWHeater) Outputs() []string { return []string{WellTemp, TopTemp} }

// WellLayer is the index of the thermal-well layer.
func (h *DHWHeater) WellLayer() int { return h.Geometry().ThermalWell() }

// StepWith advances one step. draw is in kg/s, temperatures in °C.
func (h *DHWHeater) StepWith(draw, inletTemp, ambientTemp float64, heaterOn bool) (DHWHeaterOutput, error) {
	n := h.Geometry().Layers
	bc := tes.NewBoundaryCondition(n, dynamo.CelsiusToKelvin(ambientTemp))
	bc.InletFlow[n-1] = draw
	bc.InletTemp[n-1] = dynamo.CelsiusToKelvin(inletTemp)
	bc.OutletFlow[0] = draw
	bc.HeaterOn = heaterOn

	x, err := h.engine.Step(bc)
	if err != nil {
		return DHWHeaterOutput{}, err
	}
	return DHWHeaterOutput{
		Top:  dynamo.KelvinToCelsius(x[0]),
		Well: dynamo.KelvinToCelsius(x[h.WellLayer()]),
	}, nil
}

func (h *DHWHeater) Step(t float64, in dynamo.Signals) (dynamo.Signals, error) {
	v, err := requireAll(in, dhwHeaterInputs)
	if err != nil {
		return nil, err
	}
	state := v[3]
	if state != 0 && state != 1 {
		return nil, fmt.Errorf("%w: %s must be 0 or 1, got %g", dynamo.ErrInvalidState, HeaterState, state)
	}

	out, err := h.StepWith(v[0], v[1], v[2], state == 1)
	if err != nil {
		return nil, err
	}
	return dynamo.Signals{WellTemp: out.Well, TopTemp: out.Top}, nil
}
