package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// LoadINI reads a configuration from an ini file with sections run, tank,
// profile and controller. Missing keys keep the model defaults. Draws are
// listed as start:duration:flow, comma separated.
func LoadINI(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	run := file.Section("run")
	cfg, err := ForModel(run.Key("model").MustString(ModelDHWH))
	if err != nil {
		return nil, err
	}

	cfg.Integrator = run.Key("integrator").MustString(cfg.Integrator)
	cfg.Substeps = run.Key("substeps").MustInt(cfg.Substeps)
	cfg.Controller = run.Key("controller").MustString(cfg.Controller)
	cfg.Dt = run.Key("dt").MustFloat64(cfg.Dt)
	cfg.Duration = run.Key("duration").MustFloat64(cfg.Duration)

	tank := file.Section("tank")
	cfg.Tank.Volume = tank.Key("volume").MustFloat64(cfg.Tank.Volume)
	cfg.Tank.Diameter = tank.Key("diameter").MustFloat64(cfg.Tank.Diameter)
	cfg.Tank.Layers = tank.Key("layers").MustInt(cfg.Tank.Layers)
	cfg.Tank.U = tank.Key("u").MustFloat64(cfg.Tank.U)
	cfg.Tank.KLow = tank.Key("k_low").MustFloat64(cfg.Tank.KLow)
	cfg.Tank.KHigh = tank.Key("k_high").MustFloat64(cfg.Tank.KHigh)
	cfg.Tank.HeaterPower = tank.Key("heater_power").MustFloat64(cfg.Tank.HeaterPower)
	cfg.Tank.HeaterHeight = tank.Key("heater_height").MustFloat64(cfg.Tank.HeaterHeight)
	cfg.InitialTemp = tank.Key("initial_temp").MustFloat64(cfg.InitialTemp)
	if tank.HasKey("initial_temps") {
		cfg.InitialTemps = tank.Key("initial_temps").Float64s(",")
	}

	profile := file.Section("profile")
	cfg.Profile.AmbientTemp = profile.Key("ambient_temp").MustFloat64(cfg.Profile.AmbientTemp)
	cfg.Profile.InletTemp = profile.Key("inlet_temp").MustFloat64(cfg.Profile.InletTemp)
	cfg.Profile.HPInletTemp = profile.Key("hp_inlet_temp").MustFloat64(cfg.Profile.HPInletTemp)
	cfg.Profile.HPFlow = profile.Key("hp_flow").MustFloat64(cfg.Profile.HPFlow)
	cfg.Profile.Period = profile.Key("period").MustFloat64(cfg.Profile.Period)
	cfg.Profile.ComfortTemp = profile.Key("comfort_temp").MustFloat64(cfg.Profile.ComfortTemp)
	if profile.HasKey("draws") {
		draws, err := parseDraws(profile.Key("draws").Strings(","))
		if err != nil {
			return nil, err
		}
		cfg.Profile.Draws = draws
	}

	ctrl := file.Section("controller")
	cfg.ControllerParams.Setpoint = ctrl.Key("setpoint").MustFloat64(cfg.ControllerParams.Setpoint)
	cfg.ControllerParams.Band = ctrl.Key("band").MustFloat64(cfg.ControllerParams.Band)
	cfg.ControllerParams.InitialOn = ctrl.Key("initial_on").MustBool(cfg.ControllerParams.InitialOn)
	cfg.ControllerParams.Kp = ctrl.Key("kp").MustFloat64(cfg.ControllerParams.Kp)
	cfg.ControllerParams.Ki = ctrl.Key("ki").MustFloat64(cfg.ControllerParams.Ki)
	cfg.ControllerParams.Kd = ctrl.Key("kd").MustFloat64(cfg.ControllerParams.Kd)
	cfg.ControllerParams.Window = ctrl.Key("window").MustFloat64(cfg.ControllerParams.Window)

	return cfg, nil
}

func SaveINI(path string, cfg *Config) error {
	file := ini.Empty()

	run := file.Section("run")
	run.Key("model").SetValue(cfg.Model)
	run.Key("integrator").SetValue(cfg.Integrator)
	if cfg.Substeps > 0 {
		run.Key("substeps").SetValue(strconv.Itoa(cfg.Substeps))
	}
	run.Key("controller").SetValue(cfg.Controller)
	run.Key("dt").SetValue(formatFloat(cfg.Dt))
	run.Key("duration").SetValue(formatFloat(cfg.Duration))

	tank := file.Section("tank")
	tank.Key("volume").SetValue(formatFloat(cfg.Tank.Volume))
	tank.Key("diameter").SetValue(formatFloat(cfg.Tank.Diameter))
	tank.Key("layers").SetValue(strconv.Itoa(cfg.Tank.Layers))
	tank.Key("u").SetValue(formatFloat(cfg.Tank.U))
	tank.Key("k_low").SetValue(formatFloat(cfg.Tank.KLow))
	tank.Key("k_high").SetValue(formatFloat(cfg.Tank.KHigh))
	tank.Key("heater_power").SetValue(formatFloat(cfg.Tank.HeaterPower))
	tank.Key("heater_height").SetValue(formatFloat(cfg.Tank.HeaterHeight))
	tank.Key("initial_temp").SetValue(formatFloat(cfg.InitialTemp))
	if len(cfg.InitialTemps) > 0 {
		tank.Key("initial_temps").SetValue(joinFloats(cfg.InitialTemps))
	}

	profile := file.Section("profile")
	profile.Key("ambient_temp").SetValue(formatFloat(cfg.Profile.AmbientTemp))
	profile.Key("inlet_temp").SetValue(formatFloat(cfg.Profile.InletTemp))
	profile.Key("hp_inlet_temp").SetValue(formatFloat(cfg.Profile.HPInletTemp))
	profile.Key("hp_flow").SetValue(formatFloat(cfg.Profile.HPFlow))
	profile.Key("period").SetValue(formatFloat(cfg.Profile.Period))
	profile.Key("comfort_temp").SetValue(formatFloat(cfg.Profile.ComfortTemp))
	if len(cfg.Profile.Draws) > 0 {
		draws := make([]string, len(cfg.Profile.Draws))
		for i, d := range cfg.Profile.Draws {
			draws[i] = fmt.Sprintf("%s:%s:%s", formatFloat(d.Start), formatFloat(d.Duration), formatFloat(d.Flow))
		}
		profile.Key("draws").SetValue(strings.Join(draws, ", "))
	}

	ctrl := file.Section("controller")
	ctrl.Key("setpoint").SetValue(formatFloat(cfg.ControllerParams.Setpoint))
	ctrl.Key("band").SetValue(formatFloat(cfg.ControllerParams.Band))
	ctrl.Key("initial_on").SetValue(strconv.FormatBool(cfg.ControllerParams.InitialOn))
	ctrl.Key("kp").SetValue(formatFloat(cfg.ControllerParams.Kp))
	ctrl.Key("ki").SetValue(formatFloat(cfg.ControllerParams.Ki))
	ctrl.Key("kd").SetValue(formatFloat(cfg.ControllerParams.Kd))
	ctrl.Key("window").SetValue(formatFloat(cfg.ControllerParams.Window))

	return file.SaveTo(path)
}

func parseDraws(items []string) ([]Draw, error) {
	draws := make([]Draw, 0, len(items))
	for _, item := range items {
		parts := strings.Split(item, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("draw %q: want start:duration:flow", item)
		}
		var vals [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("draw %q: %w", item, err)
			}
			vals[i] = v
		}
		draws = append(draws, Draw{Start: vals[0], Duration: vals[1], Flow: vals[2]})
	}
	return draws, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func joinFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, ", ")
}
