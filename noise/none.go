package noise

import "gonum.org/v1/gonum/mat"

// None is an absent disturbance. It draws empty samples which the simulator
// skips because their length never matches the state, so a closed loop run
// with None is identical to a run without disturbance.
type None struct{}

// NewNone creates new None disturbance and returns it
func NewNone() (*None, error) {
	return &None{}, nil
}

// Sample returns an empty disturbance sample
func (n *None) Sample() mat.Vector {
	return &mat.VecDense{}
}

// Cov returns empty covariance
func (n *None) Cov() mat.Symmetric {
	return &mat.SymDense{}
}

// Mean returns nil: there is no disturbance to average
func (n *None) Mean() []float64 {
	return nil
}

// Reset is a no-op; None keeps no random state
func (n *None) Reset() error { return nil }

// String implements the Stringer interface.
func (n *None) String() string {
	return "None{}"
}
