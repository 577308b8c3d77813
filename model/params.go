package model

import (
	"math"

	pendulum "github.com/milosgajdos/go-pendulum"
)

const (
	// Gravity is standard gravitational acceleration [m/s^2]
	Gravity = 9.81
	// Radius is nominal pendulum radius [m]
	Radius = 0.6
)

// Params are physical parameters of the pendulum
type Params struct {
	// Radius is pendulum length [m]
	Radius float64
	// Gravity is gravitational acceleration [m/s^2]
	Gravity float64
}

// DefaultParams returns nominal pendulum parameters
func DefaultParams() Params {
	return Params{Radius: Radius, Gravity: Gravity}
}

// Validate returns *pendulum.ModelError if either of the parameters
// is non-positive or not a finite number.
func (p Params) Validate() error {
	if !(p.Radius > 0) || math.IsInf(p.Radius, 0) {
		return &pendulum.ModelError{Param: "radius", Value: p.Radius}
	}

	if !(p.Gravity > 0) || math.IsInf(p.Gravity, 0) {
		return &pendulum.ModelError{Param: "gravity", Value: p.Gravity}
	}

	return nil
}
