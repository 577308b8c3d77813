package model

import (
	"fmt"

	pendulum "github.com/milosgajdos/go-pendulum"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// Linearize approximates the state matrix A and input matrix B of dynamics d
// around the operating point (q, u) using central finite differences.
// It returns error if q or u do not match the dimensions of d or if
// the dynamics fail to be evaluated at the operating point.
func Linearize(d pendulum.Dynamics, q, u mat.Vector) (*mat.Dense, *mat.Dense, error) {
	nx, nu := d.Dims()
	if q == nil || q.Len() != nx {
		return nil, nil, fmt.Errorf("invalid state vector")
	}

	if u == nil || u.Len() != nu {
		return nil, nil, fmt.Errorf("invalid input vector")
	}

	if _, err := d.Derivative(q, u); err != nil {
		return nil, nil, fmt.Errorf("failed to evaluate dynamics: %v", err)
	}

	x0 := make([]float64, nx)
	for i := range x0 {
		x0[i] = q.AtVec(i)
	}

	u0 := make([]float64, nu)
	for i := range u0 {
		u0[i] = u.AtVec(i)
	}

	settings := &fd.JacobianSettings{Formula: fd.Central}

	A := mat.NewDense(nx, nx, nil)
	fd.Jacobian(A, func(y, x []float64) {
		dq, _ := d.Derivative(mat.NewVecDense(nx, x), mat.NewVecDense(nu, u0))
		for i := range y {
			y[i] = dq.AtVec(i)
		}
	}, x0, settings)

	B := mat.NewDense(nx, nu, nil)
	fd.Jacobian(B, func(y, x []float64) {
		dq, _ := d.Derivative(mat.NewVecDense(nx, x0), mat.NewVecDense(nu, x))
		for i := range y {
			y[i] = dq.AtVec(i)
		}
	}, u0, settings)

	return A, B, nil
}
