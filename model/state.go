package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	// StateLen is the length of the pendulum state vector
	StateLen = 12
	// InputLen is the length of the pendulum input vector
	InputLen = 3
)

// State vector indices.
//
// The mapping follows the linearized model. The nonlinear dynamics read
// a few slots differently: q7 is plotted as the second tilt angle and
// q8, q9 enter its rate equations. See Nonlinear.Derivative.
const (
	X = iota
	XDot
	Theta
	ThetaDot
	Phi
	PhiDot
	Y
	YDot
	Psi
	PsiDot
	Z
	ZDot
)

var stateNames = [StateLen]string{
	"x", "x_dot", "theta", "theta_dot", "phi", "phi_dot",
	"y", "y_dot", "psi", "psi_dot", "z", "z_dot",
}

// StateName returns the name of the state vector component i.
func StateName(i int) string {
	if i < 0 || i >= StateLen {
		return fmt.Sprintf("q%d", i)
	}
	return stateNames[i]
}

// State is a named view of the pendulum state vector
type State struct {
	v *mat.VecDense
}

// NewState creates new State from vals and returns it.
// If vals is nil, zero state is returned.
// It returns error if vals has invalid length.
func NewState(vals []float64) (*State, error) {
	if vals != nil && len(vals) != StateLen {
		return nil, fmt.Errorf("invalid state length: %d", len(vals))
	}

	data := make([]float64, StateLen)
	copy(data, vals)

	return &State{v: mat.NewVecDense(StateLen, data)}, nil
}

// StateFromVec creates new State from a copy of v.
// It returns error if v has invalid length.
func StateFromVec(v mat.Vector) (*State, error) {
	if v == nil || v.Len() != StateLen {
		return nil, fmt.Errorf("invalid state vector")
	}

	s := &mat.VecDense{}
	s.CloneFromVec(v)

	return &State{v: s}, nil
}

// Vec returns a copy of the state vector
func (s *State) Vec() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(s.v)

	return v
}

// At returns state component i
func (s *State) At(i int) float64 { return s.v.AtVec(i) }

// Set sets state component i to val
func (s *State) Set(i int, val float64) { s.v.SetVec(i, val) }

// Position returns cart position (x, y, z)
func (s *State) Position() (x, y, z float64) {
	return s.v.AtVec(X), s.v.AtVec(Y), s.v.AtVec(Z)
}

// Velocity returns cart velocity (x, y, z)
func (s *State) Velocity() (x, y, z float64) {
	return s.v.AtVec(XDot), s.v.AtVec(YDot), s.v.AtVec(ZDot)
}

// Angles returns pendulum angles theta, phi and psi
func (s *State) Angles() (theta, phi, psi float64) {
	return s.v.AtVec(Theta), s.v.AtVec(Phi), s.v.AtVec(Psi)
}

// Rates returns pendulum angular rates
func (s *State) Rates() (theta, phi, psi float64) {
	return s.v.AtVec(ThetaDot), s.v.AtVec(PhiDot), s.v.AtVec(PsiDot)
}

// String implements the Stringer interface.
func (s *State) String() string {
	return fmt.Sprintf("State{%v}", mat.Formatted(s.v.T(), mat.Squeeze()))
}
