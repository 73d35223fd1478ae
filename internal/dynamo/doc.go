// Package dynamo provides core simulation primitives for thermal-storage components.
//
// The package defines the fundamental interfaces and types shared by the
// storage-tank engine, the integrators and the run loop:
//
//   - [State]: layer temperature vector (Kelvin, index 0 is the top layer)
//   - [LTI]: continuous-time linear system dX/dt = A·X + B·u for one step
//   - [Integrator]: advances an [LTI] over a step of length dt
//   - [Component]: named-port model stepped by the run loop
//   - [Controller]: feedback controller producing component inputs
//
// # Example
//
//	tank, _ := models.NewDHWHeater("dhwh", models.DefaultDHWHeaterParams())
//	out, err := tank.StepWith(0.1, 10, 10, true)
//
// # Thread Safety
//
// Components are NOT thread-safe. Independent instances share no state and
// may be stepped from different goroutines; see sim.Ensemble.
package dynamo
