package sim

import (
	"errors"
	"fmt"
	"math"

	pendulum "github.com/milosgajdos/go-pendulum"
	"github.com/milosgajdos/go-pendulum/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SweepRun is the outcome of a single perturbed simulation
type SweepRun struct {
	// Initial is the initial error norm |q_0 - ref_0|
	Initial float64
	// Final is the final error norm |q_{N-1} - ref_{N-1}|
	Final float64
	// Stable is true if the final error is finite and smaller than the initial one
	Stable bool
	// Err is the singularity which terminated the run, if any
	Err error
}

// SweepResult collects the runs of a perturbation sweep
type SweepResult struct {
	Runs []SweepRun
}

// Stabilized returns the fraction of stable runs
func (r *SweepResult) Stabilized() float64 {
	if len(r.Runs) == 0 {
		return 0
	}

	stable := make([]float64, len(r.Runs))
	for i, run := range r.Runs {
		if run.Stable {
			stable[i] = 1
		}
	}

	return floats.Sum(stable) / float64(len(r.Runs))
}

// MaxFinal returns the largest final error norm across all runs
func (r *SweepResult) MaxFinal() float64 {
	if len(r.Runs) == 0 {
		return math.NaN()
	}

	final := make([]float64, len(r.Runs))
	for i, run := range r.Runs {
		final[i] = run.Final
	}

	return floats.Max(final)
}

// String implements the Stringer interface.
func (r *SweepResult) String() string {
	return fmt.Sprintf("SweepResult{Runs=%d Stabilized=%.3f}", len(r.Runs), r.Stabilized())
}

// Sweep runs the simulator s runs times. Every run starts from ic.State()
// perturbed by a sample of noise wn; nil wn leaves the initial state unperturbed.
// Runs which hit a singularity are recorded as unstable.
// It returns error if runs is not positive, if the noise sample has invalid length
// or if a run fails for any reason other than a singularity.
func Sweep(s *Simulator, ic pendulum.InitCond, wn pendulum.Noise, ref *mat.Dense, Ts float64, N, runs int) (*SweepResult, error) {
	if s == nil || ic == nil {
		return nil, fmt.Errorf("invalid sweep configuration")
	}

	if runs < 1 {
		return nil, fmt.Errorf("invalid number of runs: %d", runs)
	}

	q0 := ic.State()
	nx := q0.Len()

	var ref0, refN mat.Vector
	if ref != nil {
		if r, c := ref.Dims(); r != nx || c != N {
			return nil, fmt.Errorf("invalid reference dimensions: [%d x %d]", r, c)
		}
		ref0, refN = ref.ColView(0), ref.ColView(N-1)
	}

	result := &SweepResult{Runs: make([]SweepRun, 0, runs)}
	for i := 0; i < runs; i++ {
		start := mat.VecDenseCopyOf(q0)
		if wn != nil {
			sample := wn.Sample()
			if sample.Len() != nx {
				return nil, fmt.Errorf("invalid noise sample length: %d", sample.Len())
			}
			start.AddVec(start, sample)
		}

		run := SweepRun{Initial: matrix.VecNorm(start, ref0)}

		traj, err := s.Run(start, ref, Ts, N)
		if err != nil {
			if !errors.Is(err, pendulum.ErrSingular) {
				return nil, fmt.Errorf("run %d failed: %v", i, err)
			}
			run.Final = math.Inf(1)
			run.Err = err
			result.Runs = append(result.Runs, run)
			continue
		}

		run.Final = matrix.VecNorm(traj.State(traj.Len()-1), refN)
		run.Stable = !math.IsNaN(run.Final) && !math.IsInf(run.Final, 0) && run.Final < run.Initial
		result.Runs = append(result.Runs, run)
	}

	return result, nil
}
