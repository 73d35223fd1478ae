package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/integrators"
	"github.com/san-kum/tanksim/internal/models"
	"github.com/san-kum/tanksim/internal/tes"
	"gopkg.in/yaml.v3"
)

const (
	ModelTank = "tank"
	ModelDHWH = "dhwh"

	ControllerNone       = "none"
	ControllerHysteresis = "hysteresis"
	ControllerAlwaysOn   = "always_on"
	ControllerPID        = "pid"
)

const (
	DefaultDt       = 60.0
	DefaultDuration = 24 * 3600.0
	DefaultAmbient  = 20.0
	DefaultColdTemp = 10.0
	DefaultSetpoint = 55.0
	DefaultBand     = 5.0
	DefaultComfort  = 45.0
	Day             = 24 * 3600.0
)

type Config struct {
	Model            string           `yaml:"model"`
	Integrator       string           `yaml:"integrator"`
	Substeps         int              `yaml:"substeps,omitempty"`
	Controller       string           `yaml:"controller"`
	Dt               float64          `yaml:"dt"`
	Duration         float64          `yaml:"duration"`
	Tank             TankConfig       `yaml:"tank"`
	InitialTemp      float64          `yaml:"initial_temp"`
	InitialTemps     []float64        `yaml:"initial_temps,omitempty"`
	Profile          ProfileConfig    `yaml:"profile"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
}

type TankConfig struct {
	Volume       float64 `yaml:"volume"`   // m³
	Diameter     float64 `yaml:"diameter"` // mm
	Layers       int     `yaml:"layers"`
	U            float64 `yaml:"u"` // W/m²K
	KLow         float64 `yaml:"k_low"`
	KHigh        float64 `yaml:"k_high"`
	HeaterPower  float64 `yaml:"heater_power,omitempty"`  // W
	HeaterHeight float64 `yaml:"heater_height,omitempty"` // mm
}

type ProfileConfig struct {
	AmbientTemp float64 `yaml:"ambient_temp"`
	InletTemp   float64 `yaml:"inlet_temp"`
	HPInletTemp float64 `yaml:"hp_inlet_temp,omitempty"`
	HPFlow      float64 `yaml:"hp_flow,omitempty"`
	Draws       []Draw  `yaml:"draws,omitempty"`
	Period      float64 `yaml:"period,omitempty"`
	ComfortTemp float64 `yaml:"comfort_temp"` // minimum useful tap temperature
}

type Draw struct {
	Start    float64 `yaml:"start"`
	Duration float64 `yaml:"duration"`
	Flow     float64 `yaml:"flow"`
}

type ControllerConfig struct {
	Setpoint  float64 `yaml:"setpoint"`
	Band      float64 `yaml:"band"`
	InitialOn bool    `yaml:"initial_on"`
	Kp        float64 `yaml:"kp,omitempty"`
	Ki        float64 `yaml:"ki,omitempty"`
	Kd        float64 `yaml:"kd,omitempty"`
	Window    float64 `yaml:"window,omitempty"` // s, switching window of the dhwh pid
}

// DefaultConfig returns a day of an electric water heater under a
// hysteresis thermostat.
func DefaultConfig() *Config {
	cfg, _ := ForModel(ModelDHWH)
	return cfg
}

// ForModel returns the default configuration of a model.
func ForModel(model string) (*Config, error) {
	cfg := &Config{
		Model:      model,
		Integrator: "exact",
		Controller: ControllerNone,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Profile: ProfileConfig{
			AmbientTemp: DefaultAmbient,
			InletTemp:   DefaultColdTemp,
			Period:      Day,
			ComfortTemp: DefaultComfort,
		},
		ControllerParams: ControllerConfig{
			Setpoint: DefaultSetpoint,
			Band:     DefaultBand,
			Kp:       0.5,
			Ki:       0.001,
			Window:   600,
		},
	}

	switch model {
	case ModelTank:
		p := models.DefaultStorageTankParams()
		cfg.Tank = tankFromParams(p.Tank)
		cfg.InitialTemp = p.InitialTemps[0]
		cfg.Profile.HPInletTemp = DefaultSetpoint
		cfg.Profile.HPFlow = 0.05
	case ModelDHWH:
		p := models.DefaultDHWHeaterParams()
		cfg.Tank = tankFromParams(p.Tank)
		cfg.InitialTemp = p.InitialTemps[0]
		cfg.Controller = ControllerHysteresis
		cfg.Profile.Draws = []Draw{
			{Start: 7 * 3600, Duration: 600, Flow: 0.1},
			{Start: 19 * 3600, Duration: 900, Flow: 0.1},
		}
	default:
		return nil, &dynamo.ConfigError{Field: "model", Value: model, Reason: "unknown model"}
	}
	return cfg, nil
}

func Load(path string) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".ini") {
		return LoadINI(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Model string `yaml:"model"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.Model == "" {
		probe.Model = ModelDHWH
	}

	cfg, err := ForModel(probe.Model)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".ini") {
		return SaveINI(path, cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.InitialTemps = append([]float64(nil), c.InitialTemps...)
	cp.Profile.Draws = append([]Draw(nil), c.Profile.Draws...)
	return &cp
}

// Params converts the tank section to engine parameters.
func (t TankConfig) Params() tes.Params {
	return tes.Params{
		Volume:       t.Volume,
		Diameter:     t.Diameter,
		Layers:       t.Layers,
		U:            t.U,
		KLow:         t.KLow,
		KHigh:        t.KHigh,
		HeaterPower:  t.HeaterPower,
		HeaterHeight: t.HeaterHeight,
	}
}

func tankFromParams(p tes.Params) TankConfig {
	return TankConfig{
		Volume:       p.Volume,
		Diameter:     p.Diameter,
		Layers:       p.Layers,
		U:            p.U,
		KLow:         p.KLow,
		KHigh:        p.KHigh,
		HeaterPower:  p.HeaterPower,
		HeaterHeight: p.HeaterHeight,
	}
}

// Temperatures returns the initial layer temperatures in °C, expanding
// InitialTemp when no per-layer list is given.
func (c *Config) Temperatures() []float64 {
	if len(c.InitialTemps) > 0 {
		return append([]float64(nil), c.InitialTemps...)
	}
	temps := make([]float64, c.Tank.Layers)
	for i := range temps {
		temps[i] = c.InitialTemp
	}
	return temps
}

func (c *Config) Validate() error {
	switch c.Model {
	case ModelTank, ModelDHWH:
	default:
		return &dynamo.ConfigError{Field: "model", Value: c.Model, Reason: "unknown model"}
	}

	if _, err := integrators.New(c.Integrator, c.Substeps); err != nil {
		return err
	}

	switch c.Controller {
	case ControllerNone, ControllerHysteresis, ControllerAlwaysOn, ControllerPID:
	default:
		return &dynamo.ConfigError{Field: "controller", Value: c.Controller, Reason: "unknown controller"}
	}
	if c.Model == ModelTank && c.Controller != ControllerNone && c.Controller != ControllerPID {
		return &dynamo.ConfigError{Field: "controller", Value: c.Controller, Reason: "storage tank has no heater to switch"}
	}
	if c.Controller == ControllerPID && c.Model == ModelDHWH && c.ControllerParams.Window <= 0 {
		return &dynamo.ConfigError{Field: "controller_params.window", Value: c.ControllerParams.Window, Reason: "must be positive"}
	}

	if c.Dt <= 0 {
		return &dynamo.ConfigError{Field: "dt", Value: c.Dt, Reason: "must be positive"}
	}
	if c.Duration <= 0 {
		return &dynamo.ConfigError{Field: "duration", Value: c.Duration, Reason: "must be positive"}
	}

	if err := c.Tank.Params().Validate(); err != nil {
		return err
	}
	if len(c.InitialTemps) > 0 && len(c.InitialTemps) != c.Tank.Layers {
		return &dynamo.ConfigError{
			Field:  "initial_temps",
			Value:  len(c.InitialTemps),
			Reason: fmt.Sprintf("need one temperature per layer (%d)", c.Tank.Layers),
		}
	}

	if c.Profile.HPFlow < 0 {
		return &dynamo.ConfigError{Field: "profile.hp_flow", Value: c.Profile.HPFlow, Reason: "must not be negative"}
	}
	for i, d := range c.Profile.Draws {
		if d.Flow < 0 || d.Duration < 0 || d.Start < 0 {
			return &dynamo.ConfigError{Field: fmt.Sprintf("profile.draws[%d]", i), Value: d, Reason: "must not be negative"}
		}
	}
	if c.ControllerParams.Band < 0 {
		return &dynamo.ConfigError{Field: "controller_params.band", Value: c.ControllerParams.Band, Reason: "must not be negative"}
	}
	return nil
}
