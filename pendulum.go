package pendulum

import "gonum.org/v1/gonum/mat"

// Dynamics is a continuous-time model of a controlled dynamical system
type Dynamics interface {
	// Derivative returns the state derivative dx/dt given state x and input u
	Derivative(x, u mat.Vector) (mat.Vector, error)
	// Dims returns state and input vector lengths
	Dims() (nx, nu int)
}

// LinearSystem is a linear time-invariant state-space model
//
//	dx/dt = A*x + B*u
type LinearSystem interface {
	// Dynamics is a continuous-time model of the system
	Dynamics
	// SystemMatrix returns state matrix A
	SystemMatrix() mat.Matrix
	// ControlMatrix returns input matrix B
	ControlMatrix() mat.Matrix
}

// Observer maps system state to its outputs
type Observer interface {
	// Observe returns output given state x and output noise wn
	Observe(x, wn mat.Vector) (mat.Vector, error)
}

// Controller computes control input of the system
type Controller interface {
	// Control returns input u given state x and reference state ref
	Control(x, ref mat.Vector) (mat.Vector, error)
}

// InitCond is initial condition of the simulated system
type InitCond interface {
	// State returns initial state
	State() mat.Vector
	// Cov returns initial state covariance
	Cov() mat.Symmetric
}

// Noise is dynamical system noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset() error
}
