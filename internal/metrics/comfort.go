package metrics

import "github.com/san-kum/tanksim/internal/dynamo"

// Comfort is the share of drawn water delivered at or above a minimum
// temperature. The delivery temperature is the top layer.
type Comfort struct {
	name      string
	flowPort  string
	minimum   float64 // K
	drawn     float64
	delivered float64
}

func NewComfort(flowPort string, minimumC float64) *Comfort {
	return &Comfort{
		name:     "comfort",
		flowPort: flowPort,
		minimum:  dynamo.CelsiusToKelvin(minimumC),
	}
}

func (c *Comfort) Name() string { return c.name }

func (c *Comfort) Observe(x dynamo.State, in dynamo.Signals, t float64) {
	flow := in[c.flowPort]
	if flow <= 0 || len(x) == 0 {
		return
	}
	c.drawn += flow
	if x[0] >= c.minimum {
		c.delivered += flow
	}
}

func (c *Comfort) Value() float64 {
	if c.drawn == 0 {
		return 1.0
	}
	return c.delivered / c.drawn
}

func (c *Comfort) Reset() {
	c.drawn = 0
	c.delivered = 0
}
