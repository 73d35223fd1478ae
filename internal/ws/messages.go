package ws

import "encoding/json"

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Server -> Client message types.
const (
	TypeRunInfo = "run:info"
	TypeStep    = "sim:step"
	TypeDone    = "sim:done"
	TypeError   = "sim:error"
)

// RunInfoPayload is sent to every client right after it connects.
type RunInfoPayload struct {
	Model      string  `json:"model"`
	Controller string  `json:"controller"`
	Integrator string  `json:"integrator"`
	Layers     int     `json:"layers"`
	Dt         float64 `json:"dt"`
	Duration   float64 `json:"duration"`
}

// StepPayload carries the tank state after one simulation step.
type StepPayload struct {
	Time    float64            `json:"t"`
	Temps   []float64          `json:"temps"`
	Inputs  map[string]float64 `json:"inputs"`
	Outputs map[string]float64 `json:"outputs,omitempty"`
}

type DonePayload struct {
	Steps   int                `json:"steps"`
	Metrics map[string]float64 `json:"metrics"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewEnvelope creates a JSON-encoded envelope with the given type and payload.
func NewEnvelope(msgType string, payload any) ([]byte, error) {
	env := Envelope{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = data
	}
	return json.Marshal(env)
}
