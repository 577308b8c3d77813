package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Outputs are the state indices observed through the output matrix C,
// in row order: x=q0, y=q6, z=q11, θ=q2 and φ=q7.
var Outputs = []int{0, 6, 11, 2, 7}

// OutputNames are labels of Outputs
var OutputNames = []string{"x", "y", "z", "θ", "φ"}

// Linear is the pendulum model linearized around the upright equilibrium
type Linear struct {
	System
	p Params
}

// NewLinear creates a linear continuous-time model of the pendulum
// linearized around its upright equilibrium.
//
//	dq/dt = A*q + B*u
//	y = C*q
//
// Besides the integrator chains, A only contains the couplings g/r, -g/r, g and -g.
// It returns *pendulum.ModelError if p is invalid.
func NewLinear(p Params) (*Linear, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	g, r := p.Gravity, p.Radius

	A := mat.NewDense(StateLen, StateLen, nil)
	A.Set(0, 1, 1)
	A.Set(1, 4, g)
	A.Set(2, 3, 1)
	A.Set(3, 2, g/r)
	A.Set(3, 4, -g/r)
	A.Set(5, 6, 1)
	A.Set(6, 9, -g)
	A.Set(7, 8, 1)
	A.Set(8, 7, g/r)
	A.Set(8, 9, -g/r)
	A.Set(10, 11, 1)

	B := mat.NewDense(StateLen, InputLen, nil)
	B.Set(4, 0, 1)
	B.Set(9, 1, 1)
	B.Set(11, 2, 1)

	C := mat.NewDense(len(Outputs), StateLen, nil)
	for i, idx := range Outputs {
		C.Set(i, idx, 1)
	}

	return &Linear{System: newSystem(A, B, C), p: p}, nil
}

// Params returns model parameters
func (l *Linear) Params() Params {
	return l.p
}

// Propagate returns the next state of the linearized system given
// state x, input u and disturbance wd, advanced by a forward Euler step dt.
func (l *Linear) Propagate(x, u, wd mat.Vector, dt float64) (mat.Vector, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("invalid time step: %f", dt)
	}

	dx, err := l.Derivative(x, u)
	if err != nil {
		return nil, err
	}

	out := mat.NewVecDense(x.Len(), nil)
	out.AddScaledVec(x, dt, dx)

	if wd != nil && wd.Len() == x.Len() {
		out.AddVec(out, wd)
	}

	return out, nil
}
