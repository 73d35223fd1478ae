package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state or input (negative, NaN or Inf detected)")

	// ErrMassBalance indicates inlet and outlet mass flows of a step do not sum to the same value.
	ErrMassBalance = errors.New("dynamo: mass balance violated (sum of inlet flows != sum of outlet flows)")

	// ErrIllConditioned indicates the discretized system lost too much precision to be trusted.
	ErrIllConditioned = errors.New("dynamo: discretization numerically ill-conditioned")

	// ErrConfiguration indicates a parameter value is outside its valid range.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrDimensionMismatch indicates mismatched state/input dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrUnknownInput indicates a component was stepped with a missing or unexpected input.
	ErrUnknownInput = errors.New("dynamo: unknown or missing component input")
)

// ConfigError reports which construction parameter was rejected.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dynamo: invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// StepError wraps an error with simulation context.
type StepError struct {
	Component string
	Step      int
	Time      float64
	Wrapped   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %d (t=%.1fs): %v", e.Component, e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
