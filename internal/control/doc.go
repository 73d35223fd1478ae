// Package control provides feedback controllers for tank components.
//
// Controllers implement the [dynamo.Controller] interface. They read the
// component outputs of the previous step and return the inputs they own:
//
//   - [Hysteresis]: two-point thermostat (heater on/off from the thermal well)
//   - [PID]: continuous controller with output clamping (heat-pump flow)
//   - [None]: passthrough controller (no inputs)
//   - [Constant]: fixed input values, e.g. heater permanently on
//   - [TimeProportional]: on/off switching from the duty of an inner controller
//
// # Usage
//
//	ctrl := control.NewHysteresis(models.WellTemp, models.HeaterState, 55, 10, 0)
//	sim := sim.New(heater, profile, ctrl)
//
// Controllers implementing [dynamo.Configurable] support live tuning.
package control
