package pendulum

import (
	"errors"
	"fmt"
)

var (
	// ErrModel is returned when physical model parameters are invalid
	ErrModel = errors.New("invalid model")
	// ErrDesign is returned when no stabilizing controller exists
	ErrDesign = errors.New("no stabilizing solution")
	// ErrSingular is returned when system dynamics become singular
	ErrSingular = errors.New("singular dynamics")
)

// ModelError reports an invalid physical parameter.
type ModelError struct {
	// Param is the parameter name
	Param string
	// Value is the rejected value
	Value float64
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model: invalid parameter %s: %g", e.Param, e.Value)
}

// Unwrap returns ErrModel
func (e *ModelError) Unwrap() error { return ErrModel }

// DesignError reports a failed controller design.
type DesignError struct {
	// Reason describes why the design failed
	Reason string
	// Err is the underlying error, if any
	Err error
}

func (e *DesignError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lqr: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("lqr: %s", e.Reason)
}

// Is reports whether target is ErrDesign.
func (e *DesignError) Is(target error) bool { return target == ErrDesign }

// Unwrap returns the underlying error
func (e *DesignError) Unwrap() error { return e.Err }

// SingularityError reports the simulation sample at which
// the dynamics could not be evaluated.
type SingularityError struct {
	// Step is the sample index
	Step int
	// Time is the simulation time of the sample
	Time float64
	// Cause names the offending quantity
	Cause string
}

func (e *SingularityError) Error() string {
	return fmt.Sprintf("sim: step %d (t=%.4f): %s", e.Step, e.Time, e.Cause)
}

// Unwrap returns ErrSingular
func (e *SingularityError) Unwrap() error { return ErrSingular }
