package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// System defines a linear model of a plant using
// traditional matrices of modern control theory.
//
// It contains the System (A), input (B) and Observation/Output (C) matrices.
// The pendulum outputs have no direct feedthrough from the input.
type System struct {
	// System/State matrix A
	A *mat.Dense
	// Control/Input Matrix B
	B *mat.Dense
	// Observation/Output Matrix C
	C *mat.Dense
}

func newSystem(A, B, C *mat.Dense) System {
	sys := System{A: mat.DenseCopyOf(A)}
	if B != nil {
		sys.B = mat.DenseCopyOf(B)
	}
	if C != nil {
		sys.C = mat.DenseCopyOf(C)
	}
	return sys
}

// SystemDims returns internal state length (nx), input vector length (nu)
// and external/observable/output state length (ny).
func (s System) SystemDims() (nx, nu, ny int) {
	nx, _ = s.A.Dims()
	if s.B != nil {
		_, nu = s.B.Dims()
	}
	if s.C != nil {
		ny, _ = s.C.Dims()
	}
	return nx, nu, ny
}

// Dims returns state and input vector lengths
func (s System) Dims() (nx, nu int) {
	nx, nu, _ = s.SystemDims()
	return nx, nu
}

// SystemMatrix returns a copy of state matrix `A`.
func (s System) SystemMatrix() mat.Matrix {
	m := &mat.Dense{}
	m.CloneFrom(s.A)

	return m
}

// ControlMatrix returns a copy of input matrix `B`
func (s System) ControlMatrix() mat.Matrix {
	if s.B == nil {
		return nil
	}
	m := &mat.Dense{}
	m.CloneFrom(s.B)

	return m
}

// Derivative returns the state derivative A*x + B*u.
// u may be nil in which case the input is ignored.
func (s System) Derivative(x, u mat.Vector) (mat.Vector, error) {
	nx, nu, _ := s.SystemDims()
	if u != nil && u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	if x == nil || x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := mat.NewVecDense(nx, nil)
	out.MulVec(s.A, x)

	if u != nil && s.B != nil {
		outU := mat.NewVecDense(nx, nil)
		outU.MulVec(s.B, u)

		out.AddVec(out, outU)
	}

	return out, nil
}

// Observe returns the output C*x given internal state x.
// wn is added to the output as a noise vector if its length matches the output.
func (s System) Observe(x, wn mat.Vector) (mat.Vector, error) {
	nx, _, ny := s.SystemDims()
	if s.C == nil {
		return nil, fmt.Errorf("missing output matrix")
	}

	if x == nil || x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := mat.NewVecDense(ny, nil)
	out.MulVec(s.C, x)

	if wn != nil && wn.Len() == ny {
		out.AddVec(out, wn)
	}

	return out, nil
}
