package ws

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/sim"
)

// Bridge is a simulation observer that broadcasts each step to the hub.
type Bridge struct {
	hub *Hub

	Every int           // broadcast only every n-th step when > 1
	Pace  time.Duration // wall time slept after each broadcast

	count int
}

func NewBridge(hub *Hub) *Bridge {
	return &Bridge{hub: hub, Every: 1}
}

// OnStep implements dynamo.Observer.
func (b *Bridge) OnStep(x dynamo.State, in, out dynamo.Signals, t float64) {
	b.count++
	if b.Every > 1 && b.count%b.Every != 0 {
		return
	}
	msg, err := NewEnvelope(TypeStep, StepPayload{
		Time:    t,
		Temps:   x.Celsius(),
		Inputs:  in,
		Outputs: out,
	})
	if err != nil {
		log.WithError(err).Error("marshal step")
		return
	}
	b.hub.Broadcast(msg)
	if b.Pace > 0 {
		time.Sleep(b.Pace)
	}
}

// Done announces the end of a run, or the error that stopped it.
func (b *Bridge) Done(result *sim.Result, runErr error) {
	var (
		msg []byte
		err error
	)
	if runErr != nil {
		msg, err = NewEnvelope(TypeError, ErrorPayload{Message: runErr.Error()})
	} else {
		msg, err = NewEnvelope(TypeDone, DonePayload{Steps: result.StepsTaken, Metrics: result.Metrics})
	}
	if err != nil {
		log.WithError(err).Error("marshal run summary")
		return
	}
	b.hub.Broadcast(msg)
}
