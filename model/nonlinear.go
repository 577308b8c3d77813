package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// singularCos is the magnitude below which a cosine is treated as zero
const singularCos = 1e-9

// Nonlinear is the full nonlinear model of the pendulum
type Nonlinear struct {
	p Params
}

// NewNonlinear creates nonlinear pendulum model and returns it.
// It returns *pendulum.ModelError if p is invalid.
func NewNonlinear(p Params) (*Nonlinear, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &Nonlinear{p: p}, nil
}

// Params returns model parameters
func (n *Nonlinear) Params() Params {
	return n.p
}

// Dims returns state and input vector lengths
func (n *Nonlinear) Dims() (nx, nu int) {
	return StateLen, InputLen
}

// Derivative returns the state derivative of the pendulum given state q and input u.
//
// With the thrust term T = g + g/2*(q4^2 + q9^2) + u2 it evaluates
//
//	dq0  = q1
//	dq1  = T*sin(q4)
//	dq2  = q3
//	dq3  = -q8^2*sin(q2)*cos(q2) + 1/r*(-ax*cos(q2) - ay*sin(q7)*sin(q2) + az*cos(q7)*sin(q2))
//	dq4  = u0
//	dq5  = q6
//	dq6  = ay
//	dq7  = q8
//	dq8  = 2*q3*q8*tan(q2) + 1/(r*cos(q2))*(ay*cos(q7) + az*sin(q7))
//	dq9  = u1/cos(q4)
//	dq10 = q11
//	dq11 = az - g
//
// where ax = T*sin(q4), ay = -T*sin(q9)*cos(q4) and az = T*cos(q4)*cos(q9).
//
// Nothing is guarded: cos(q2) = 0 or cos(q4) = 0 yield non-finite derivatives.
func (n *Nonlinear) Derivative(q, u mat.Vector) (mat.Vector, error) {
	if q == nil || q.Len() != StateLen {
		return nil, fmt.Errorf("invalid state vector")
	}

	if u == nil || u.Len() != InputLen {
		return nil, fmt.Errorf("invalid input vector")
	}

	dq := mat.NewVecDense(StateLen, nil)
	n.derivativeTo(dq, q, u)

	return dq, nil
}

func (n *Nonlinear) derivativeTo(dq *mat.VecDense, q, u mat.Vector) {
	g, r := n.p.Gravity, n.p.Radius

	q2, q3, q4 := q.AtVec(2), q.AtVec(3), q.AtVec(4)
	q7, q8, q9 := q.AtVec(7), q.AtVec(8), q.AtVec(9)

	s2, c2 := math.Sincos(q2)
	s4, c4 := math.Sincos(q4)
	s7, c7 := math.Sincos(q7)
	s9, c9 := math.Sincos(q9)

	T := g + 0.5*g*(q4*q4+q9*q9) + u.AtVec(2)
	ax := T * s4
	ay := -T * s9 * c4
	az := T * c4 * c9

	dq.SetVec(0, q.AtVec(1))
	dq.SetVec(1, ax)
	dq.SetVec(2, q3)
	dq.SetVec(3, -q8*q8*s2*c2+(1/r)*(-ax*c2-ay*s7*s2+az*c7*s2))
	dq.SetVec(4, u.AtVec(0))
	dq.SetVec(5, q.AtVec(6))
	dq.SetVec(6, ay)
	dq.SetVec(7, q8)
	dq.SetVec(8, 2*q3*q8*math.Tan(q2)+(1/r)*(1/c2)*(ay*c7+az*s7))
	dq.SetVec(9, u.AtVec(1)/c4)
	dq.SetVec(10, q.AtVec(11))
	dq.SetVec(11, az-g)
}

// Singular reports whether the dynamics are singular at state q
// and if so returns the offending quantity.
func (n *Nonlinear) Singular(q mat.Vector) (string, bool) {
	if math.Abs(math.Cos(q.AtVec(2))) < singularCos {
		return "cos(q2)=0", true
	}

	if math.Abs(math.Cos(q.AtVec(4))) < singularCos {
		return "cos(q4)=0", true
	}

	return "", false
}
