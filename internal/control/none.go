package control

import "github.com/san-kum/tanksim/internal/dynamo"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(out dynamo.Signals, t float64) dynamo.Signals {
	return dynamo.Signals{}
}

// Constant always returns the same inputs.
type Constant struct {
	values dynamo.Signals
}

func NewConstant(values dynamo.Signals) *Constant {
	return &Constant{values: values.Clone()}
}

func (c *Constant) Compute(out dynamo.Signals, t float64) dynamo.Signals {
	return c.values.Clone()
}
