package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/tanksim/internal/dynamo"
	log "github.com/sirupsen/logrus"
)

type Simulator struct {
	comp       dynamo.Component
	source     Source
	controller dynamo.Controller
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	logger     log.FieldLogger
}

// New wires a component to its input source and controller. A nil controller
// contributes no inputs.
func New(comp dynamo.Component, source Source, controller dynamo.Controller) *Simulator {
	return &Simulator{
		comp:       comp,
		source:     source,
		controller: controller,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		logger:     log.WithField("component", comp.Name()),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) {
	s.metrics = append(s.metrics, m)
}

func (s *Simulator) AddObserver(o dynamo.Observer) {
	s.observers = append(s.observers, o)
}

func (s *Simulator) SetLogger(l log.FieldLogger) { s.logger = l }

func (s *Simulator) Component() dynamo.Component { return s.comp }

func (s *Simulator) Controller() dynamo.Controller { return s.controller }

// Run advances the component for cfg.Duration. A failed step stops the run
// and returns the partial result together with a *dynamo.StepError; the
// component keeps its last valid state.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		States:  make([]dynamo.State, 0, steps+1),
		Inputs:  make([]dynamo.Signals, 0, steps),
		Outputs: make([]dynamo.Signals, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Times = append(result.Times, 0)
	result.States = append(result.States, s.comp.State())
	result.Outputs = append(result.Outputs, dynamo.Signals{})

	s.logger.WithFields(log.Fields{
		"steps": steps,
		"dt":    cfg.Dt,
	}).Info("simulation started")
	start := time.Now()

	var out dynamo.Signals
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		t := float64(i) * cfg.Dt
		in, next, err := s.Advance(t, out)
		if err != nil {
			stepErr := &dynamo.StepError{Component: s.comp.Name(), Step: i, Time: t, Wrapped: err}
			s.logger.WithError(err).WithField("step", i).Error("step failed")
			s.collect(result)
			return result, stepErr
		}
		out = next

		x := s.comp.State()
		for _, m := range s.metrics {
			m.Observe(x, in, t+cfg.Dt)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, in, out, t+cfg.Dt)
		}

		result.StepsTaken++
		result.Times = append(result.Times, t+cfg.Dt)
		result.States = append(result.States, x)
		result.Inputs = append(result.Inputs, in)
		result.Outputs = append(result.Outputs, out)

		if i%1000 == 0 {
			s.logger.WithFields(log.Fields{"step": i, "t": t}).Debug("step")
		}
	}

	s.collect(result)
	s.logger.WithFields(log.Fields{
		"steps":   result.StepsTaken,
		"elapsed": time.Since(start),
	}).Info("simulation finished")
	return result, nil
}

// Advance performs a single step at time t given the previous outputs and
// returns the applied inputs together with the new outputs. Metrics and
// observers are not updated.
func (s *Simulator) Advance(t float64, out dynamo.Signals) (dynamo.Signals, dynamo.Signals, error) {
	in := s.inputs(out, t)
	next, err := s.comp.Step(t, in)
	if err != nil {
		return in, nil, err
	}
	return in, next, nil
}

func (s *Simulator) inputs(out dynamo.Signals, t float64) dynamo.Signals {
	in := dynamo.Signals{}
	if s.source != nil {
		in = s.source.Inputs(t)
	}
	if s.controller != nil {
		for k, v := range s.controller.Compute(out, t) {
			in[k] = v
		}
	}
	return in
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return &dynamo.ConfigError{Field: "dt", Value: cfg.Dt, Reason: "must be positive"}
	}
	if cfg.Duration <= 0 {
		return &dynamo.ConfigError{Field: "duration", Value: cfg.Duration, Reason: "must be positive"}
	}
	return nil
}
