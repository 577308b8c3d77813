package lqr

import (
	"fmt"

	pendulum "github.com/milosgajdos/go-pendulum"
	"github.com/milosgajdos/go-pendulum/matrix"
	"gonum.org/v1/gonum/mat"
)

// LQR is continuous-time infinite horizon Linear Quadratic Regulator
type LQR struct {
	// a is system state matrix
	a *mat.Dense
	// b is system input matrix
	b *mat.Dense
	// q is state cost weight
	q *mat.SymDense
	// r is input cost weight
	r *mat.SymDense
	// s is stabilizing solution of the CARE
	s *mat.SymDense
	// k is state feedback gain
	k *mat.Dense
	// acl is closed loop state matrix A-B*K
	acl *mat.Dense
}

// New designs an LQR for system sys with state cost weight Q and
// input cost weight R and returns it. The regulator minimizes
//
//	J = integral(x'*Q*x + u'*R*u) dt
//
// with the state feedback u = -K*x where K = inv(R)*B'*S and S is the
// stabilizing solution of the CARE.
// It returns *pendulum.DesignError if the CARE has no stabilizing solution
// or if the closed loop matrix A-B*K is not Hurwitz.
func New(sys pendulum.LinearSystem, Q, R mat.Symmetric) (*LQR, error) {
	if sys == nil {
		return nil, &pendulum.DesignError{Reason: "missing system"}
	}

	A := mat.DenseCopyOf(sys.SystemMatrix())
	if sys.ControlMatrix() == nil {
		return nil, &pendulum.DesignError{Reason: "missing input matrix"}
	}
	B := mat.DenseCopyOf(sys.ControlMatrix())

	S, err := SolveCARE(A, B, Q, R)
	if err != nil {
		return nil, err
	}

	n, m := B.Dims()

	// K = inv(R)*B'*S
	BtS := mat.NewDense(m, n, nil)
	BtS.Mul(B.T(), S)

	var chol mat.Cholesky
	if ok := chol.Factorize(R); !ok {
		return nil, &pendulum.DesignError{Reason: "input weight R is not positive definite"}
	}
	K := mat.NewDense(m, n, nil)
	if err := chol.SolveTo(K, BtS); err != nil {
		return nil, &pendulum.DesignError{Reason: "failed to compute gain", Err: err}
	}

	if !matrix.IsFinite(K) {
		return nil, &pendulum.DesignError{Reason: "gain is not finite"}
	}

	// A-B*K
	acl := mat.NewDense(n, n, nil)
	acl.Mul(B, K)
	acl.Sub(A, acl)

	maxRe, err := matrix.MaxRealEig(acl)
	if err != nil {
		return nil, &pendulum.DesignError{Reason: "failed to check closed loop stability", Err: err}
	}

	if maxRe >= 0 {
		return nil, &pendulum.DesignError{Reason: "closed loop is not stable",
			Err: fmt.Errorf("max real eigenvalue part: %g", maxRe)}
	}

	q := mat.NewSymDense(Q.SymmetricDim(), nil)
	q.CopySym(Q)
	r := mat.NewSymDense(R.SymmetricDim(), nil)
	r.CopySym(R)

	return &LQR{
		a:   A,
		b:   B,
		q:   q,
		r:   r,
		s:   S,
		k:   K,
		acl: acl,
	}, nil
}

// Control returns the control input u = -K*(x-ref).
// If ref is nil the reference is the zero state.
// It returns error if either x or ref have invalid dimensions.
func (l *LQR) Control(x, ref mat.Vector) (mat.Vector, error) {
	m, n := l.k.Dims()
	if x == nil || x.Len() != n {
		return nil, fmt.Errorf("invalid state vector")
	}

	e := mat.NewVecDense(n, nil)
	e.CopyVec(x)

	if ref != nil {
		if ref.Len() != n {
			return nil, fmt.Errorf("invalid reference vector")
		}
		e.SubVec(e, ref)
	}

	u := mat.NewVecDense(m, nil)
	u.MulVec(l.k, e)
	u.ScaleVec(-1, u)

	return u, nil
}

// Gain returns LQR state feedback gain K
func (l *LQR) Gain() mat.Matrix {
	gain := &mat.Dense{}
	gain.CloneFrom(l.k)

	return gain
}

// Riccati returns stabilizing solution of the CARE
func (l *LQR) Riccati() mat.Symmetric {
	s := mat.NewSymDense(l.s.SymmetricDim(), nil)
	s.CopySym(l.s)

	return s
}

// ClosedLoop returns closed loop state matrix A-B*K
func (l *LQR) ClosedLoop() mat.Matrix {
	acl := &mat.Dense{}
	acl.CloneFrom(l.acl)

	return acl
}

// ClosedLoopEigen returns eigenvalues of the closed loop state matrix A-B*K.
// It returns error if the eigen decomposition fails.
func (l *LQR) ClosedLoopEigen() ([]complex128, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(l.acl, mat.EigenNone); !ok {
		return nil, fmt.Errorf("eigen decomposition failed")
	}

	return eig.Values(nil), nil
}

// Residual returns the Frobenius norm of the CARE residual
// relative to the Frobenius norm of its solution.
func (l *LQR) Residual() (float64, error) {
	res, err := Residual(l.a, l.b, l.q, l.r, l.s)
	if err != nil {
		return 0, err
	}

	norm := mat.Norm(l.s, 2)
	if norm < 1 {
		norm = 1
	}

	return mat.Norm(res, 2) / norm, nil
}

// String implements the Stringer interface.
func (l *LQR) String() string {
	return fmt.Sprintf("LQR{\nK=%v\n}", mat.Formatted(l.k, mat.Prefix("  "), mat.Squeeze()))
}
