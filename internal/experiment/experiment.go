package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/sim"
)

// Experiment is one configured simulation run.
type Experiment struct {
	cfg       *config.Config
	model     Model
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the configuration and wires model, profile, controller and
// default metrics.
func (e *Experiment) Setup(r *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	m, err := r.GetModel(e.cfg)
	if err != nil {
		return err
	}
	profile, err := r.GetProfile(e.cfg)
	if err != nil {
		return err
	}
	ctrl, err := r.GetController(e.cfg)
	if err != nil {
		return err
	}

	e.model = m
	e.simulator = sim.New(m, profile, ctrl)
	for _, metric := range r.DefaultMetrics(e.cfg, m) {
		e.simulator.AddMetric(metric)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, sim.Config{
		Dt:       e.cfg.Dt,
		Duration: e.cfg.Duration,
	})
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Model() Model { return e.model }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
