package sim

import (
	"fmt"
	"math"

	pendulum "github.com/milosgajdos/go-pendulum"
	"github.com/milosgajdos/go-pendulum/matrix"
	"gonum.org/v1/gonum/mat"
)

// MaxSamples is the largest number of samples a simulation may have
const MaxSamples = 1 << 24

// singularity is implemented by dynamics which can detect
// states where their derivative is undefined
type singularity interface {
	Singular(q mat.Vector) (string, bool)
}

// propagator is implemented by dynamics which advance their own state
// by a forward Euler step of length dt with disturbance wd
type propagator interface {
	Propagate(x, u, wd mat.Vector, dt float64) (mat.Vector, error)
}

// Simulator runs closed loop simulations of continuous-time dynamics
// with forward Euler integration
type Simulator struct {
	// dyn is the simulated plant
	dyn pendulum.Dynamics
	// ctl is state feedback controller
	ctl pendulum.Controller
	// wd is disturbance noise
	wd pendulum.Noise
	// guard enables singularity checks
	guard bool
}

// New creates new Simulator of dynamics dyn driven by controller ctl and returns it.
// wd is optional disturbance added to every propagated state; it can be nil.
// It returns error if either dyn or ctl is nil.
func New(dyn pendulum.Dynamics, ctl pendulum.Controller, wd pendulum.Noise) (*Simulator, error) {
	if dyn == nil {
		return nil, fmt.Errorf("missing dynamics")
	}

	if ctl == nil {
		return nil, fmt.Errorf("missing controller")
	}

	return &Simulator{
		dyn: dyn,
		ctl: ctl,
		wd:  wd,
	}, nil
}

// SetGuard turns singularity checks on or off. Checks are off by default
// and non-finite values then propagate through the trajectory.
func (s *Simulator) SetGuard(on bool) {
	s.guard = on
}

// Run simulates N samples of the closed loop from the initial state q0 with sampling period Ts.
// ref is [nx x N] reference trajectory; nil means the zero state at every sample.
// At every sample k < N-1 it computes u_k = Control(q_k, ref_k) and
//
//	q_{k+1} = q_k + Ts*f(q_k, u_k)
//
// The last input sample is left at zero.
// It returns error if the arguments are invalid, if the controller or dynamics fail
// or, with the guard on, *pendulum.SingularityError when the dynamics become singular.
func (s *Simulator) Run(q0 mat.Vector, ref *mat.Dense, Ts float64, N int) (*Trajectory, error) {
	nx, nu := s.dyn.Dims()

	if q0 == nil || q0.Len() != nx {
		return nil, fmt.Errorf("invalid initial state")
	}

	if Ts <= 0 || math.IsNaN(Ts) || math.IsInf(Ts, 0) {
		return nil, fmt.Errorf("invalid sampling period: %f", Ts)
	}

	if N < 1 || N > MaxSamples {
		return nil, fmt.Errorf("invalid number of samples: %d", N)
	}

	if ref != nil {
		if r, c := ref.Dims(); r != nx || c != N {
			return nil, fmt.Errorf("invalid reference dimensions: [%d x %d]", r, c)
		}
	}

	traj := newTrajectory(nx, nu, N, Ts)

	q := mat.VecDenseCopyOf(q0)
	traj.q.SetCol(0, q.RawVector().Data)

	for k := 0; k < N-1; k++ {
		if err := s.check(q, nil, k, Ts); err != nil {
			return nil, err
		}

		var r mat.Vector
		if ref != nil {
			r = ref.ColView(k)
		}

		u, err := s.ctl.Control(q, r)
		if err != nil {
			return nil, fmt.Errorf("control failed at step %d: %v", k, err)
		}

		if u.Len() != nu {
			return nil, fmt.Errorf("invalid control vector length at step %d: %d", k, u.Len())
		}

		next, err := s.step(q, u, k, Ts)
		if err != nil {
			return nil, err
		}

		for i := 0; i < nu; i++ {
			traj.u.Set(i, k, u.AtVec(i))
		}
		traj.q.SetCol(k+1, next.RawVector().Data)

		q = next
	}

	if err := s.check(q, nil, N-1, Ts); err != nil {
		return nil, err
	}

	return traj, nil
}

// step returns q + Ts*f(q, u) plus a disturbance sample.
// Dynamics which implement Propagate advance the state themselves.
func (s *Simulator) step(q, u mat.Vector, k int, Ts float64) (*mat.VecDense, error) {
	nx := q.Len()

	var wd mat.Vector
	if s.wd != nil {
		wd = s.wd.Sample()
	}

	if p, ok := s.dyn.(propagator); ok {
		next, err := p.Propagate(q, u, wd, Ts)
		if err != nil {
			return nil, fmt.Errorf("propagation failed at step %d: %v", k, err)
		}
		return mat.VecDenseCopyOf(next), nil
	}

	dq, err := s.dyn.Derivative(q, u)
	if err != nil {
		return nil, fmt.Errorf("dynamics failed at step %d: %v", k, err)
	}

	if err := s.check(nil, dq, k, Ts); err != nil {
		return nil, err
	}

	next := mat.NewVecDense(nx, nil)
	next.AddScaledVec(q, Ts, dq)

	if wd != nil && wd.Len() == nx {
		next.AddVec(next, wd)
	}

	return next, nil
}

// check returns *pendulum.SingularityError if the guard is on and
// either q is singular or non-finite, or dq is non-finite
func (s *Simulator) check(q, dq mat.Vector, k int, Ts float64) error {
	if !s.guard {
		return nil
	}

	serr := &pendulum.SingularityError{Step: k, Time: float64(k) * Ts}

	if q != nil {
		if !matrix.IsFinite(q) {
			serr.Cause = "non-finite state"
			return serr
		}

		if sg, ok := s.dyn.(singularity); ok {
			if cause, singular := sg.Singular(q); singular {
				serr.Cause = cause
				return serr
			}
		}
	}

	if dq != nil && !matrix.IsFinite(dq) {
		serr.Cause = "non-finite derivative"
		return serr
	}

	return nil
}

// Samples returns the number of samples of a simulation with horizon Tf and
// sampling period Ts: the length of the time grid 0, Ts, 2*Ts, ... < Tf.
// It returns error if either Tf or Ts is not positive or if the grid
// would have more than MaxSamples samples.
func Samples(Tf, Ts float64) (int, error) {
	if !(Tf > 0) || math.IsInf(Tf, 0) {
		return 0, fmt.Errorf("invalid horizon: %f", Tf)
	}

	if !(Ts > 0) || math.IsInf(Ts, 0) {
		return 0, fmt.Errorf("invalid sampling period: %f", Ts)
	}

	n := math.Ceil(Tf / Ts)
	if n > MaxSamples {
		return 0, fmt.Errorf("too many samples: %g > %d", n, MaxSamples)
	}

	return int(n), nil
}
