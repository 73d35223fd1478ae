package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/experiment"
	"github.com/san-kum/tanksim/internal/sim"
	log "github.com/sirupsen/logrus"
)

// ParameterSweep runs one configuration across a range of parameter values
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Workers   int
}

// SweepResult holds the outcome of one sweep point
type SweepResult struct {
	ParamValue float64
	FinalTemps []float64 // °C
	Metrics    map[string]float64
}

// Values returns the evenly spaced parameter values of the sweep.
func (p *ParameterSweep) Values() []float64 {
	if p.NumSteps == 1 {
		return []float64{p.ParamMin}
	}
	step := (p.ParamMax - p.ParamMin) / float64(p.NumSteps-1)
	vals := make([]float64, p.NumSteps)
	for i := range vals {
		vals[i] = p.ParamMin + float64(i)*step
	}
	return vals
}

// RunSweep executes the sweep points in parallel
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, &dynamo.ConfigError{Field: "steps", Value: sweep.NumSteps, Reason: "need at least one sweep point"}
	}
	values := sweep.Values()

	ens := sim.NewEnsemble(len(values), func(i int) (*sim.Simulator, error) {
		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, values[i]); err != nil {
			return nil, err
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, values[i], err)
		}
		return exp.GetSimulator(), nil
	})
	ens.SetLimit(sweep.Workers)

	runs, err := ens.Run(ctx, sim.Config{Dt: sweep.Base.Dt, Duration: sweep.Base.Duration})
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(values))
	for i, res := range runs {
		results[i] = SweepResult{
			ParamValue: values[i],
			FinalTemps: res.Final().Celsius(),
			Metrics:    res.Metrics,
		}
	}

	log.WithFields(log.Fields{
		"param":  sweep.ParamName,
		"points": len(results),
	}).Info("sweep finished")

	return results, nil
}
