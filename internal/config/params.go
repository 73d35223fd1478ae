package config

import (
	"strings"

	"github.com/san-kum/tanksim/internal/dynamo"
)

// ParamNames lists the names accepted by SetParam.
var ParamNames = []string{
	"volume", "diameter", "layers", "u", "k_low", "k_high", "heater_power", "heater_height",
	"initial_temp", "ambient_temp", "inlet_temp", "hp_inlet_temp", "hp_flow", "comfort_temp",
	"setpoint", "band", "kp", "ki", "kd", "dt", "duration",
}

// SetParam overrides one numeric setting by name. Used by scenarios and
// parameter sweeps.
func (c *Config) SetParam(name string, value float64) error {
	switch strings.ToLower(name) {
	case "volume":
		c.Tank.Volume = value
	case "diameter":
		c.Tank.Diameter = value
	case "layers":
		c.Tank.Layers = int(value)
		c.InitialTemps = nil
	case "u":
		c.Tank.U = value
	case "k_low":
		c.Tank.KLow = value
	case "k_high":
		c.Tank.KHigh = value
	case "heater_power":
		c.Tank.HeaterPower = value
	case "heater_height":
		c.Tank.HeaterHeight = value
	case "initial_temp":
		c.InitialTemp = value
		c.InitialTemps = nil
	case "ambient_temp":
		c.Profile.AmbientTemp = value
	case "inlet_temp":
		c.Profile.InletTemp = value
	case "hp_inlet_temp":
		c.Profile.HPInletTemp = value
	case "hp_flow":
		c.Profile.HPFlow = value
	case "comfort_temp":
		c.Profile.ComfortTemp = value
	case "setpoint":
		c.ControllerParams.Setpoint = value
	case "band":
		c.ControllerParams.Band = value
	case "kp":
		c.ControllerParams.Kp = value
	case "ki":
		c.ControllerParams.Ki = value
	case "kd":
		c.ControllerParams.Kd = value
	case "dt":
		c.Dt = value
	case "duration":
		c.Duration = value
	default:
		return &dynamo.ConfigError{Field: name, Value: value, Reason: "unknown parameter"}
	}
	return nil
}

// ScaleDraws multiplies every draw flow by factor.
func (c *Config) ScaleDraws(factor float64) {
	for i := range c.Profile.Draws {
		c.Profile.Draws[i].Flow *= factor
	}
}
