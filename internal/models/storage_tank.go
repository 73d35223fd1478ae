package models

import (
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/tes"
)

// Input ports of StorageTank. Flows in kg/s, temperatures in °C.
const (
	InletFlowHP   = "inlet_flow_hp"
	OutletFlowHP  = "outlet_flow_hp"
	InletFlowDHW  = "inlet_flow_dhw"
	OutletFlowDHW = "outlet_flow_dhw"
	InletTempHP   = "inlet_temp_hp"
	InletTempDHW  = "inlet_temp_dhw"
	AmbientTemp   = "ambient_temp"
)

var storageTankInputs = []string{InletFlowHP, OutletFlowHP, InletFlowDHW, OutletFlowDHW, InletTempHP, InletTempDHW, AmbientTemp}

type StorageTankParams struct {
	Tank         tes.Params
	Dt           float64   // s
	InitialTemps []float64 // °C, top layer first
	Integrator   dynamo.Integrator
}

func DefaultStorageTankParams() StorageTankParams {
	return StorageTankParams{
		Tank: tes.Params{
			Volume:   2,
			Diameter: 1200,
			Layers:   3,
			U:        0.338,
			KLow:     tes.DefaultKLow,
			KHigh:    tes.DefaultKHigh,
		},
		Dt:           60,
		InitialTemps: []float64{20, 20, 20},
	}
}

// StorageTankInput is one step of forcing for a StorageTank.
type StorageTankInput struct {
	InletFlowHP   float64
	OutletFlowHP  float64
	InletFlowDHW  float64
	OutletFlowDHW float64
	InletTempHP   float64
	InletTempDHW  float64
	AmbientTemp   float64
}

// StorageTank is a buffer tank between a heat pump and the hot-water system.
// Heat-pump supply enters the top and returns from the bottom; hot water is
// drawn from the top and replaced by cold water entering the bottom.
type StorageTank struct {
	tank
}

func NewStorageTank(name string, p StorageTankParams) (*StorageTank, error) {
	t, err := newTank(name, p.Tank, p.Dt, p.InitialTemps, p.Integrator)
	if err != nil {
		return nil, err
	}
	return &StorageTank{tank: t}, nil
}

func (s *StorageTank) Inputs() []string { return append([]string(nil), storageTankInputs...) }

func (s *StorageTank) Outputs() []string { return layerOutputs(s.Geometry().Layers) }

// StepWith advances one step and returns the layer temperatures in °C.
func (s *StorageTank) StepWith(in StorageTankInput) ([]float64, error) {
	n := s.Geometry().Layers
	bc := tes.NewBoundaryCondition(n, dynamo.CelsiusToKelvin(in.AmbientTemp))
	bc.InletFlow[0] = in.InletFlowHP
	bc.InletTemp[0] = dynamo.CelsiusToKelvin(in.InletTempHP)
	bc.InletFlow[n-1] = in.InletFlowDHW
	bc.InletTemp[n-1] = dynamo.CelsiusToKelvin(in.InletTempDHW)
	bc.OutletFlow[0] = in.OutletFlowDHW
	bc.OutletFlow[n-1] = in.OutletFlowHP

	x, err := s.engine.Step(bc)
	if err != nil {
		return nil, err
	}
	return x.Celsius(), nil
}

func (s *StorageTank) Step(t float64, in dynamo.Signals) (dynamo.Signals, error) {
	v, err := requireAll(in, storageTankInputs)
	if err != nil {
		return nil, err
	}

	temps, err := s.StepWith(StorageTankInput{
		InletFlowHP:   v[0],
		OutletFlowHP:  v[1],
		InletFlowDHW:  v[2],
		OutletFlowDHW: v[3],
		InletTempHP:   v[4],
		InletTempDHW:  v[5],
		AmbientTemp:   v[6],
	})
	if err != nil {
		return nil, err
	}

	out := make(dynamo.Signals, len(temps))
	for i, c := range temps {
		out[layerName(i)] = c
	}
	return out, nil
}
