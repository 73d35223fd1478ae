package metrics

import "github.com/san-kum/tanksim/internal/dynamo"

// Stratification is the share of observed states without a temperature
// inversion.
type Stratification struct {
	name       string
	inversions int
	samples    int
}

func NewStratification() *Stratification {
	return &Stratification{
		name: "stratification",
	}
}

func (s *Stratification) Name() string {
	return s.name
}

func (s *Stratification) Observe(x dynamo.State, in dynamo.Signals, t float64) {
	s.samples++
	if x.Inverted() {
		s.inversions++
	}
}

func (s *Stratification) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.inversions)/float64(s.samples)
}

func (s *Stratification) Inversions() int { return s.inversions }

func (s *Stratification) Reset() {
	s.inversions = 0
	s.samples = 0
}
