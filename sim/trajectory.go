package sim

import (
	"fmt"

	pendulum "github.com/milosgajdos/go-pendulum"
	"gonum.org/v1/gonum/mat"
)

// Trajectory is a sampled closed loop simulation run.
// Column k of the state and input matrices holds the sample at time k*Ts.
type Trajectory struct {
	// ts is sampling period
	ts float64
	// q is state history [nx x N]
	q *mat.Dense
	// u is input history [nu x N]
	u *mat.Dense
}

func newTrajectory(nx, nu, n int, ts float64) *Trajectory {
	return &Trajectory{
		ts: ts,
		q:  mat.NewDense(nx, n, nil),
		u:  mat.NewDense(nu, n, nil),
	}
}

// Len returns the number of samples
func (t *Trajectory) Len() int {
	if t.q == nil {
		return 0
	}
	_, n := t.q.Dims()
	return n
}

// Step returns sampling period
func (t *Trajectory) Step() float64 {
	return t.ts
}

// Time returns time of the k-th sample
func (t *Trajectory) Time(k int) float64 {
	return float64(k) * t.ts
}

// Times returns sample times
func (t *Trajectory) Times() []float64 {
	times := make([]float64, t.Len())
	for k := range times {
		times[k] = t.Time(k)
	}

	return times
}

// State returns a copy of the k-th state sample.
// It panics if k is out of range.
func (t *Trajectory) State(k int) mat.Vector {
	return mat.VecDenseCopyOf(t.q.ColView(k))
}

// Input returns a copy of the k-th input sample.
// It panics if k is out of range.
func (t *Trajectory) Input(k int) mat.Vector {
	return mat.VecDenseCopyOf(t.u.ColView(k))
}

// States returns a copy of the state history
func (t *Trajectory) States() mat.Matrix {
	return mat.DenseCopyOf(t.q)
}

// Inputs returns a copy of the input history
func (t *Trajectory) Inputs() mat.Matrix {
	return mat.DenseCopyOf(t.u)
}

// Component returns the time series of the i-th state component.
// It panics if i is out of range.
func (t *Trajectory) Component(i int) []float64 {
	return mat.Row(nil, i, t.q)
}

// Outputs returns [ny x N] output history obtained by observing
// every state sample through obs.
// It returns error if obs is nil, the trajectory is empty or observation fails.
func (t *Trajectory) Outputs(obs pendulum.Observer) (*mat.Dense, error) {
	if obs == nil {
		return nil, fmt.Errorf("missing observer")
	}

	n := t.Len()
	if n == 0 {
		return nil, fmt.Errorf("empty trajectory")
	}

	var out *mat.Dense
	for k := 0; k < n; k++ {
		y, err := obs.Observe(t.q.ColView(k), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to observe sample %d: %v", k, err)
		}

		if out == nil {
			out = mat.NewDense(y.Len(), n, nil)
		}
		if y.Len() != out.RawMatrix().Rows {
			return nil, fmt.Errorf("invalid output length at sample %d: %d", k, y.Len())
		}

		for i := 0; i < y.Len(); i++ {
			out.Set(i, k, y.AtVec(i))
		}
	}

	return out, nil
}

// String implements the Stringer interface.
func (t *Trajectory) String() string {
	nx, n := t.q.Dims()
	nu, _ := t.u.Dims()
	return fmt.Sprintf("Trajectory{Ts=%g N=%d nx=%d nu=%d}", t.ts, n, nx, nu)
}
