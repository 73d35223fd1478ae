package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/control"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/integrators"
	"github.com/san-kum/tanksim/internal/metrics"
	"github.com/san-kum/tanksim/internal/models"
	"github.com/san-kum/tanksim/internal/sim"
	"github.com/san-kum/tanksim/internal/tes"
)

// Model is a component together with the pieces that depend on its ports.
type Model interface {
	dynamo.Component
	Geometry() *tes.Geometry
	Temperatures() []float64
	Energy() float64
}

type modelBuilder struct {
	build   func(cfg *config.Config, integ dynamo.Integrator) (Model, error)
	profile func(cfg *config.Config) *sim.Profile
	metrics func(cfg *config.Config, m Model) []dynamo.Metric
}

type Registry struct {
	models      map[string]modelBuilder
	controllers map[string]func(cfg *config.Config) dynamo.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]modelBuilder),
		controllers: make(map[string]func(*config.Config) dynamo.Controller),
	}

	r.models[config.ModelTank] = modelBuilder{
		build: func(cfg *config.Config, integ dynamo.Integrator) (Model, error) {
			t, err := models.NewStorageTank(config.ModelTank, models.StorageTankParams{
				Tank:         cfg.Tank.Params(),
				Dt:           cfg.Dt,
				InitialTemps: cfg.Temperatures(),
				Integrator:   integ,
			})
			if err != nil {
				return nil, err
			}
			return t, nil
		},
		profile: func(cfg *config.Config) *sim.Profile {
			return &sim.Profile{
				Constant: dynamo.Signals{
					models.InletFlowHP:  cfg.Profile.HPFlow,
					models.OutletFlowHP: cfg.Profile.HPFlow,
					models.InletTempHP:  cfg.Profile.HPInletTemp,
					models.InletTempDHW: cfg.Profile.InletTemp,
					models.AmbientTemp:  cfg.Profile.AmbientTemp,
				},
				DrawPorts: []string{models.InletFlowDHW, models.OutletFlowDHW},
				Draws:     draws(cfg),
				Period:    cfg.Profile.Period,
			}
		},
		metrics: func(cfg *config.Config, m Model) []dynamo.Metric {
			return []dynamo.Metric{
				metrics.NewStoredEnergy(m.Geometry(), cfg.Profile.InletTemp),
				metrics.NewStratification(),
				metrics.NewComfort(models.OutletFlowDHW, cfg.Profile.ComfortTemp),
			}
		},
	}

	r.models[config.ModelDHWH] = modelBuilder{
		build: func(cfg *config.Config, integ dynamo.Integrator) (Model, error) {
			h, err := models.NewDHWHeater(config.ModelDHWH, models.DHWHeaterParams{
				Tank:         cfg.Tank.Params(),
				Dt:           cfg.Dt,
				InitialTemps: cfg.Temperatures(),
				Integrator:   integ,
			})
			if err != nil {
				return nil, err
			}
			return h, nil
		},
		profile: func(cfg *config.Config) *sim.Profile {
			return &sim.Profile{
				Constant: dynamo.Signals{
					models.InletTemp:   cfg.Profile.InletTemp,
					models.AmbientTemp: cfg.Profile.AmbientTemp,
					models.HeaterState: 0,
				},
				DrawPorts: []string{models.OutletFlow},
				Draws:     draws(cfg),
				Period:    cfg.Profile.Period,
			}
		},
		metrics: func(cfg *config.Config, m Model) []dynamo.Metric {
			return []dynamo.Metric{
				metrics.NewStoredEnergy(m.Geometry(), cfg.Profile.InletTemp),
				metrics.NewHeaterEnergy(models.HeaterState, cfg.Tank.HeaterPower),
				metrics.NewStratification(),
				metrics.NewComfort(models.OutletFlow, cfg.Profile.ComfortTemp),
			}
		},
	}

	r.controllers[config.ControllerNone] = func(*config.Config) dynamo.Controller {
		return control.NewNone()
	}
	r.controllers[config.ControllerAlwaysOn] = func(*config.Config) dynamo.Controller {
		return control.NewConstant(dynamo.Signals{models.HeaterState: 1})
	}
	r.controllers[config.ControllerHysteresis] = func(cfg *config.Config) dynamo.Controller {
		p := cfg.ControllerParams
		initial := 0.0
		if p.InitialOn {
			initial = 1
		}
		return control.NewHysteresis(models.WellTemp, models.HeaterState, p.Setpoint, p.Band, initial)
	}
	// The storage tank regulates its top temperature with the heat-pump flow;
	// the water heater switches its element by time-proportioning.
	r.controllers[config.ControllerPID] = func(cfg *config.Config) dynamo.Controller {
		p := cfg.ControllerParams
		if cfg.Model == config.ModelTank {
			return control.NewPID(models.TopTemp, []string{models.InletFlowHP, models.OutletFlowHP},
				p.Kp, p.Ki, p.Kd, p.Setpoint, 0, cfg.Profile.HPFlow)
		}
		pid := control.NewPID(models.WellTemp, []string{models.HeaterState}, p.Kp, p.Ki, p.Kd, p.Setpoint, 0, 1)
		return control.NewTimeProportional(pid, models.HeaterState, p.Window)
	}

	return r
}

func draws(cfg *config.Config) []sim.Draw {
	out := make([]sim.Draw, len(cfg.Profile.Draws))
	for i, d := range cfg.Profile.Draws {
		out[i] = sim.Draw{Start: d.Start, Duration: d.Duration, Flow: d.Flow}
	}
	return out
}

func (r *Registry) GetModel(cfg *config.Config) (Model, error) {
	b, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
	integ, err := r.GetIntegrator(cfg.Integrator, cfg.Substeps)
	if err != nil {
		return nil, err
	}
	return b.build(cfg, integ)
}

func (r *Registry) GetIntegrator(name string, substeps int) (dynamo.Integrator, error) {
	return integrators.New(name, substeps)
}

func (r *Registry) GetController(cfg *config.Config) (dynamo.Controller, error) {
	fn, ok := r.controllers[cfg.Controller]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", cfg.Controller)
	}
	return fn(cfg), nil
}

func (r *Registry) GetProfile(cfg *config.Config) (*sim.Profile, error) {
	b, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
	return b.profile(cfg), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(cfg *config.Config, m Model) []dynamo.Metric {
	b, ok := r.models[cfg.Model]
	if !ok {
		return nil
	}
	return b.metrics(cfg, m)
}
