package lqr

import (
	"errors"
	"math"
	"testing"

	pendulum "github.com/milosgajdos/go-pendulum"
	"github.com/milosgajdos/go-pendulum/matrix"
	"github.com/milosgajdos/go-pendulum/model"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// plant is a minimal pendulum.LinearSystem used in tests
type plant struct {
	A, B *mat.Dense
}

func (p *plant) Derivative(x, u mat.Vector) (mat.Vector, error) {
	n, _ := p.A.Dims()
	out := mat.NewVecDense(n, nil)
	out.MulVec(p.A, x)
	bu := mat.NewVecDense(n, nil)
	bu.MulVec(p.B, u)
	out.AddVec(out, bu)
	return out, nil
}

func (p *plant) Dims() (int, int) {
	n, m := p.B.Dims()
	return n, m
}

func (p *plant) SystemMatrix() mat.Matrix  { return p.A }
func (p *plant) ControlMatrix() mat.Matrix { return p.B }

func weights(t *testing.T, n, m int) (*mat.SymDense, *mat.SymDense) {
	Q, err := matrix.Eye(n, 1.0)
	assert.NoError(t, err)
	R, err := matrix.Eye(m, 1.0)
	assert.NoError(t, err)
	return Q, R
}

func TestSolveCAREScalar(t *testing.T) {
	assert := assert.New(t)

	A := mat.NewDense(1, 1, []float64{1.0})
	B := mat.NewDense(1, 1, []float64{1.0})
	Q, R := weights(t, 1, 1)

	S, err := SolveCARE(A, B, Q, R)
	assert.NoError(err)
	assert.InDelta(1+math.Sqrt2, S.At(0, 0), 1e-10)
}

func TestSolveCAREDoubleIntegrator(t *testing.T) {
	assert := assert.New(t)

	A := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	B := mat.NewDense(2, 1, []float64{0, 1})
	Q, R := weights(t, 2, 1)

	S, err := SolveCARE(A, B, Q, R)
	assert.NoError(err)

	exp := mat.NewDense(2, 2, []float64{math.Sqrt(3), 1, 1, math.Sqrt(3)})
	assert.True(mat.EqualApprox(exp, S, 1e-10))

	l, err := New(&plant{A: A, B: B}, Q, R)
	assert.NoError(err)
	assert.NotNil(l)

	K := l.Gain()
	assert.InDelta(1.0, K.At(0, 0), 1e-10)
	assert.InDelta(math.Sqrt(3), K.At(0, 1), 1e-10)

	u, err := l.Control(mat.NewVecDense(2, []float64{1, 0}), nil)
	assert.NoError(err)
	assert.InDelta(-1.0, u.AtVec(0), 1e-10)

	u, err = l.Control(mat.NewVecDense(2, []float64{1, 0}), mat.NewVecDense(2, []float64{1, 0}))
	assert.NoError(err)
	assert.InDelta(0.0, u.AtVec(0), 1e-12)

	u, err = l.Control(mat.NewVecDense(3, nil), nil)
	assert.Nil(u)
	assert.Error(err)

	u, err = l.Control(mat.NewVecDense(2, nil), mat.NewVecDense(3, nil))
	assert.Nil(u)
	assert.Error(err)
}

func TestSolveCAREInvalid(t *testing.T) {
	assert := assert.New(t)

	A := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	B := mat.NewDense(2, 1, []float64{0, 1})
	Q, R := weights(t, 2, 1)

	// dimension mismatch
	S, err := SolveCARE(A, mat.NewDense(3, 1, nil), Q, R)
	assert.Nil(S)
	assert.True(errors.Is(err, pendulum.ErrDesign))

	S, err = SolveCARE(A, B, Q, mat.NewSymDense(2, []float64{1, 0, 0, 1}))
	assert.Nil(S)
	assert.True(errors.Is(err, pendulum.ErrDesign))

	S, err = SolveCARE(mat.NewDense(2, 3, nil), B, Q, R)
	assert.Nil(S)
	assert.True(errors.Is(err, pendulum.ErrDesign))

	// R is not positive definite
	S, err = SolveCARE(A, B, Q, mat.NewSymDense(1, []float64{-1}))
	assert.Nil(S)
	assert.True(errors.Is(err, pendulum.ErrDesign))

	S, err = SolveCARE(A, B, Q, mat.NewSymDense(1, []float64{0}))
	assert.Nil(S)
	assert.True(errors.Is(err, pendulum.ErrDesign))

	// Q is indefinite
	S, err = SolveCARE(A, B, mat.NewSymDense(2, []float64{1, 0, 0, -1}), R)
	assert.Nil(S)
	var de *pendulum.DesignError
	assert.True(errors.As(err, &de))
	assert.Contains(de.Reason, "state weight")
}

func TestNewNotStabilizable(t *testing.T) {
	assert := assert.New(t)

	// second mode is unstable and uncontrollable
	A := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	B := mat.NewDense(2, 1, []float64{1, 0})
	Q, R := weights(t, 2, 1)

	l, err := New(&plant{A: A, B: B}, Q, R)
	assert.Nil(l)
	assert.True(errors.Is(err, pendulum.ErrDesign))

	// second mode is an uncontrollable integrator
	A = mat.NewDense(2, 2, nil)
	l, err = New(&plant{A: A, B: B}, Q, R)
	assert.Nil(l)
	assert.True(errors.Is(err, pendulum.ErrDesign))

	l, err = New(nil, Q, R)
	assert.Nil(l)
	assert.True(errors.Is(err, pendulum.ErrDesign))
}

func TestPendulumLQR(t *testing.T) {
	assert := assert.New(t)

	for _, r := range []float64{0.3, 0.6, 1.0} {
		for _, g := range []float64{9.81, 3.71} {
			sys, err := model.NewLinear(model.Params{Radius: r, Gravity: g})
			assert.NoError(err)

			Q, R := weights(t, model.StateLen, model.InputLen)
			l, err := New(sys, Q, R)
			assert.NoError(err, "r=%v g=%v", r, g)
			if err != nil {
				continue
			}

			rows, cols := l.Gain().Dims()
			assert.Equal(model.InputLen, rows)
			assert.Equal(model.StateLen, cols)
			assert.True(matrix.IsFinite(l.Gain()))

			eig, err := l.ClosedLoopEigen()
			assert.NoError(err)
			assert.Len(eig, model.StateLen)
			for _, e := range eig {
				assert.Less(real(e), -1e-6, "r=%v g=%v", r, g)
			}

			maxRe, err := matrix.MaxRealEig(l.ClosedLoop())
			assert.NoError(err)
			assert.Less(maxRe, -1e-6)

			res, err := l.Residual()
			assert.NoError(err)
			assert.Less(res, 1e-6, "r=%v g=%v", r, g)

			// S is symmetric positive semi-definite
			var es mat.EigenSym
			assert.True(es.Factorize(l.Riccati(), false))
			for _, v := range es.Values(nil) {
				assert.GreaterOrEqual(v, -1e-9)
			}
		}
	}
}

func TestLQRCopies(t *testing.T) {
	assert := assert.New(t)

	sys, err := model.NewLinear(model.DefaultParams())
	assert.NoError(err)
	Q, R := weights(t, model.StateLen, model.InputLen)

	l, err := New(sys, Q, R)
	assert.NoError(err)

	K := l.Gain().(*mat.Dense)
	k00 := K.At(0, 0)
	K.Set(0, 0, k00+1)
	assert.Equal(k00, l.Gain().At(0, 0))

	S := l.Riccati().(*mat.SymDense)
	s00 := S.At(0, 0)
	S.SetSym(0, 0, s00+1)
	assert.Equal(s00, l.Riccati().At(0, 0))

	// mutating the weights after the design does not affect it
	Q.SetSym(0, 0, 100)
	res, err := l.Residual()
	assert.NoError(err)
	assert.Less(res, 1e-6)

	assert.Contains(l.String(), "K=")
}

func TestResidualInvalid(t *testing.T) {
	assert := assert.New(t)

	A := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	B := mat.NewDense(2, 1, []float64{0, 1})
	Q, R := weights(t, 2, 1)

	res, err := Residual(A, B, Q, R, mat.NewSymDense(3, nil))
	assert.Nil(res)
	assert.Error(err)

	res, err = Residual(A, nil, Q, R, mat.NewSymDense(2, nil))
	assert.Nil(res)
	assert.Error(err)

	// zero solution leaves Q as residual
	res, err = Residual(A, B, Q, R, mat.NewSymDense(2, nil))
	assert.NoError(err)
	assert.True(mat.EqualApprox(res, Q, 1e-12))
}
