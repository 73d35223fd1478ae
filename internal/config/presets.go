package config

import "sort"

var Presets = map[string]map[string]*Config{
	ModelTank: {
		"idle": tankPreset(func(c *Config) {
			c.Profile.HPFlow = 0
			c.InitialTemp = 50
			c.Duration = 7 * Day
		}),
		"charging": tankPreset(func(c *Config) {
			c.Profile.HPFlow = 0.3
			c.Profile.HPInletTemp = 55
			c.Duration = 4 * 3600
		}),
		"demand": tankPreset(func(c *Config) {
			c.Profile.HPFlow = 0
			c.InitialTemp = 50
			c.Profile.Draws = []Draw{{Start: 0, Duration: 600, Flow: 3}}
			c.Duration = 3600
		}),
		"regulated": tankPreset(func(c *Config) {
			c.Controller = ControllerPID
			c.Profile.HPFlow = 0.3
			c.Profile.HPInletTemp = 60
			c.ControllerParams.Setpoint = 50
			c.Profile.Draws = []Draw{
				{Start: 7 * 3600, Duration: 1800, Flow: 0.2},
				{Start: 19 * 3600, Duration: 1800, Flow: 0.2},
			}
		}),
		"stratified": tankPreset(func(c *Config) {
			c.Tank.Layers = 10
			c.InitialTemps = []float64{60, 58, 55, 50, 45, 40, 35, 30, 25, 20}
			c.Profile.HPFlow = 0
			c.Duration = 2 * Day
		}),
	},
	ModelDHWH: {
		"default": dhwhPreset(func(c *Config) {}),
		"heavy_use": dhwhPreset(func(c *Config) {
			c.Profile.Draws = []Draw{
				{Start: 6.5 * 3600, Duration: 900, Flow: 0.15},
				{Start: 7 * 3600, Duration: 600, Flow: 0.1},
				{Start: 12 * 3600, Duration: 300, Flow: 0.05},
				{Start: 19 * 3600, Duration: 1200, Flow: 0.15},
				{Start: 21 * 3600, Duration: 600, Flow: 0.1},
			}
		}),
		"no_heater": dhwhPreset(func(c *Config) {
			c.Controller = ControllerNone
			c.InitialTemp = 60
		}),
		"always_on": dhwhPreset(func(c *Config) {
			c.Controller = ControllerAlwaysOn
			c.Duration = 4 * 3600
			c.Profile.Draws = nil
		}),
		"pid": dhwhPreset(func(c *Config) {
			c.Controller = ControllerPID
		}),
	},
}

func tankPreset(edit func(*Config)) *Config {
	cfg, _ := ForModel(ModelTank)
	edit(cfg)
	return cfg
}

func dhwhPreset(edit func(*Config)) *Config {
	cfg, _ := ForModel(ModelDHWH)
	edit(cfg)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Models lists the model names in sorted order.
func Models() []string {
	return []string{ModelDHWH, ModelTank}
}
