package sim

import "github.com/san-kum/tanksim/internal/dynamo"

type Config struct {
	Dt       float64 // s, must match the component's step length
	Duration float64 // s
}

func DefaultConfig() Config {
	return Config{
		Dt:       60,
		Duration: 24 * 3600,
	}
}

// Result is the recorded trajectory of one run. States[0] and Outputs[0]
// describe the initial condition; entry i+1 follows input i.
type Result struct {
	Times      []float64
	States     []dynamo.State
	Inputs     []dynamo.Signals
	Outputs    []dynamo.Signals
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last recorded state.
func (r *Result) Final() dynamo.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// Series extracts one named output over time.
func (r *Result) Series(name string) []float64 {
	out := make([]float64, 0, len(r.Outputs))
	for _, o := range r.Outputs {
		out = append(out, o[name])
	}
	return out
}
