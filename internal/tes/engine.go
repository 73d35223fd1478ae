package tes

import (
	"fmt"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/integrators"
)

// StepReport describes the internal network used by the last committed step.
type StepReport struct {
	Flow         FlowNetwork
	Conductivity ConductivityProfile
	Dt           float64
}

// Engine advances a stratified tank. It is not safe for concurrent use.
type Engine struct {
	geom       *Geometry
	params     Params
	dt         float64
	integrator dynamo.Integrator
	state      dynamo.State
	last       StepReport
	steps      int
}

// NewEngine builds an engine with the given initial layer temperatures in
// Kelvin. A nil integrator selects exact integration.
func NewEngine(p Params, dt float64, initial dynamo.State, integ dynamo.Integrator) (*Engine, error) {
	g, err := NewGeometry(p)
	if err != nil {
		return nil, err
	}
	if dt < 0 {
		return nil, &dynamo.ConfigError{Field: "dt", Value: dt, Reason: "must not be negative"}
	}
	if len(initial) != p.Layers {
		return nil, &dynamo.ConfigError{Field: "initial_temperatures", Value: len(initial), Reason: fmt.Sprintf("need %d values", p.Layers)}
	}
	for _, t := range initial {
		if !nonNegative(t) {
			return nil, &dynamo.ConfigError{Field: "initial_temperatures", Value: t, Reason: "must be a finite absolute temperature"}
		}
	}
	if integ == nil {
		integ = integrators.NewExact()
	}

	return &Engine{
		geom:       g,
		params:     p,
		dt:         dt,
		integrator: integ,
		state:      initial.Clone(),
	}, nil
}

func (e *Engine) Geometry() *Geometry { return e.geom }

func (e *Engine) Params() Params { return e.params }

func (e *Engine) Dt() float64 { return e.dt }

func (e *Engine) Integrator() dynamo.Integrator { return e.integrator }

// State returns a copy of the current layer temperatures in Kelvin.
func (e *Engine) State() dynamo.State { return e.state.Clone() }

// LastStep reports the flow network and conductivities of the last committed step.
func (e *Engine) LastStep() StepReport { return e.last }

// Steps returns the number of committed steps.
func (e *Engine) Steps() int { return e.steps }

// Step advances the tank by the configured step length.
func (e *Engine) Step(bc BoundaryCondition) (dynamo.State, error) {
	return e.Advance(bc, e.dt)
}

// Advance advances the tank by dt seconds. On error the stored state is left
// untouched.
func (e *Engine) Advance(bc BoundaryCondition, dt float64) (dynamo.State, error) {
	if err := bc.validate(e.geom.Layers); err != nil {
		return nil, err
	}

	flow, err := BuildFlowNetwork(bc.InletFlow, bc.OutletFlow)
	if err != nil {
		return nil, err
	}
	k := SwitchConductivity(e.state, e.params.KLow, e.params.KHigh)

	sys := Assemble(e.geom, flow, k, bc)
	next, err := e.integrator.Advance(sys, e.state, dt)
	if err != nil {
		return nil, fmt.Errorf("%s step: %w", e.integrator.Name(), err)
	}

	e.state = next
	e.last = StepReport{Flow: flow, Conductivity: k, Dt: dt}
	e.steps++
	return next.Clone(), nil
}
