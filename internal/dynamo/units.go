package dynamo

// ZeroCelsius is 0 °C expressed in Kelvin.
const ZeroCelsius = 273.15

// SpecificHeatWater is the heat capacity of water in J/(kg K).
const SpecificHeatWater = 4200.0

func CelsiusToKelvin(c float64) float64 { return c + ZeroCelsius }

func KelvinToCelsius(k float64) float64 { return k - ZeroCelsius }

// ToKelvin converts a slice of Celsius values into a new State.
func ToKelvin(c []float64) State {
	s := make(State, len(c))
	for i, v := range c {
		s[i] = CelsiusToKelvin(v)
	}
	return s
}

// Celsius returns a copy of the state converted to Celsius.
func (s State) Celsius() []float64 {
	c := make([]float64, len(s))
	for i, v := range s {
		c[i] = KelvinToCelsius(v)
	}
	return c
}
