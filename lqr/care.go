package lqr

import (
	"fmt"
	"math"

	pendulum "github.com/milosgajdos/go-pendulum"
	"github.com/milosgajdos/go-pendulum/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/lapack"
	"gonum.org/v1/gonum/lapack/gonum"
	"gonum.org/v1/gonum/mat"
)

const (
	// axisTol is the relative distance from the imaginary axis
	// below which a Hamiltonian eigenvalue is considered to lie on it
	axisTol = 1e-10
	// maxCond is the largest accepted condition number of U11
	maxCond = 1e12
	// psdTol is the relative tolerance for negative eigenvalues of Q
	psdTol = 1e-12
)

// SolveCARE returns the stabilizing solution S of the continuous-time
// algebraic Riccati equation
//
//	A'*S + S*A - S*B*inv(R)*B'*S + Q = 0
//
// It uses the Schur method: the Hamiltonian matrix
//
//	H = [ A  -B*inv(R)*B' ]
//	    [ -Q      -A'     ]
//
// is reduced to real Schur form with its stable eigenvalues ordered first.
// The first n Schur vectors [U11; U21] span the stable invariant subspace
// of H and S = U21*inv(U11).
//
// It returns *pendulum.DesignError if the dimensions do not agree, if R is not
// positive definite, if Q is not positive semi-definite or if (A, B) admits no
// stabilizing solution.
func SolveCARE(A, B mat.Matrix, Q, R mat.Symmetric) (*mat.SymDense, error) {
	n, m, err := checkDims(A, B, Q, R)
	if err != nil {
		return nil, &pendulum.DesignError{Reason: "invalid dimensions", Err: err}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(R); !ok {
		return nil, &pendulum.DesignError{Reason: "input weight R is not positive definite"}
	}

	if err := checkPSD(Q); err != nil {
		return nil, &pendulum.DesignError{Reason: "state weight Q is not positive semi-definite", Err: err}
	}

	// G = B*inv(R)*B'
	RinvBt := mat.NewDense(m, n, nil)
	if err := chol.SolveTo(RinvBt, B.T()); err != nil {
		return nil, &pendulum.DesignError{Reason: "failed to invert R", Err: err}
	}
	G := mat.NewDense(n, n, nil)
	G.Mul(B, RinvBt)

	H := hamiltonian(A, G, Q)

	Z, err := orderedSchur(H, n)
	if err != nil {
		return nil, &pendulum.DesignError{Reason: "no stabilizing solution", Err: err}
	}

	u11 := mat.DenseCopyOf(Z.Slice(0, n, 0, n))
	u21 := mat.DenseCopyOf(Z.Slice(n, 2*n, 0, n))

	if c := mat.Cond(u11, 1); c > maxCond || math.IsNaN(c) {
		return nil, &pendulum.DesignError{Reason: "system is not stabilizable",
			Err: fmt.Errorf("stable subspace basis is singular: cond=%g", c)}
	}

	// S*U11 = U21  =>  U11'*S' = U21'
	St := &mat.Dense{}
	if err := St.Solve(u11.T(), u21.T()); err != nil {
		return nil, &pendulum.DesignError{Reason: "failed to compute Riccati solution", Err: err}
	}

	S, err := matrix.ToSym(St.T())
	if err != nil {
		return nil, &pendulum.DesignError{Reason: "failed to compute Riccati solution", Err: err}
	}

	if !matrix.IsFinite(S) {
		return nil, &pendulum.DesignError{Reason: "Riccati solution is not finite"}
	}

	return S, nil
}

// Residual returns the CARE residual matrix
//
//	A'*S + S*A - S*B*inv(R)*B'*S + Q
//
// It returns error if the dimensions do not agree or if R is singular.
func Residual(A, B mat.Matrix, Q, R, S mat.Symmetric) (*mat.Dense, error) {
	n, m, err := checkDims(A, B, Q, R)
	if err != nil {
		return nil, err
	}

	if S.SymmetricDim() != n {
		return nil, fmt.Errorf("invalid Riccati solution dimensions: %d", S.SymmetricDim())
	}

	var lu mat.LU
	lu.Factorize(R)
	RinvBt := mat.NewDense(m, n, nil)
	if err := lu.SolveTo(RinvBt, false, B.T()); err != nil {
		return nil, fmt.Errorf("failed to invert R: %v", err)
	}

	SB := mat.NewDense(n, m, nil)
	SB.Mul(S, B)

	SGS := mat.NewDense(n, n, nil)
	SGS.Mul(SB, RinvBt)
	SGS.Mul(SGS, S)

	res := mat.NewDense(n, n, nil)
	res.Mul(A.T(), S)

	SA := mat.NewDense(n, n, nil)
	SA.Mul(S, A)

	res.Add(res, SA)
	res.Sub(res, SGS)
	res.Add(res, Q)

	return res, nil
}

func checkDims(A, B mat.Matrix, Q, R mat.Symmetric) (n, m int, err error) {
	if A == nil || B == nil || Q == nil || R == nil {
		return 0, 0, fmt.Errorf("missing matrix")
	}

	n, c := A.Dims()
	if n != c || n == 0 {
		return 0, 0, fmt.Errorf("invalid state matrix dimensions: [%d x %d]", n, c)
	}

	rb, m := B.Dims()
	if rb != n || m == 0 {
		return 0, 0, fmt.Errorf("invalid input matrix dimensions: [%d x %d]", rb, m)
	}

	if Q.SymmetricDim() != n {
		return 0, 0, fmt.Errorf("invalid state weight dimensions: [%d x %d]", Q.SymmetricDim(), Q.SymmetricDim())
	}

	if R.SymmetricDim() != m {
		return 0, 0, fmt.Errorf("invalid input weight dimensions: [%d x %d]", R.SymmetricDim(), R.SymmetricDim())
	}

	return n, m, nil
}

func checkPSD(Q mat.Symmetric) error {
	var eig mat.EigenSym
	if ok := eig.Factorize(Q, false); !ok {
		return fmt.Errorf("eigen decomposition failed")
	}

	vals := eig.Values(nil)
	scale := math.Max(1, math.Abs(floats.Max(vals)))
	if lo := floats.Min(vals); lo < -psdTol*scale {
		return fmt.Errorf("negative eigenvalue: %g", lo)
	}

	return nil
}

// hamiltonian returns the 2n x 2n Hamiltonian matrix of the CARE
func hamiltonian(A, G mat.Matrix, Q mat.Symmetric) *mat.Dense {
	n, _ := A.Dims()
	H := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			H.Set(i, j, A.At(i, j))
			H.Set(i, n+j, -G.At(i, j))
			H.Set(n+i, j, -Q.At(i, j))
			H.Set(n+i, n+j, -A.At(j, i))
		}
	}

	return H
}

// orderedSchur computes real Schur decomposition H = Z*T*Z' with the stable
// eigenvalues of H in the leading n x n block of T and returns Z.
// It returns error if the QR algorithm fails to converge, if any eigenvalue
// lies on the imaginary axis or if H does not have exactly n stable eigenvalues.
func orderedSchur(H *mat.Dense, n int) (*mat.Dense, error) {
	impl := gonum.Implementation{}

	N, _ := H.Dims()
	t := make([]float64, N*N)
	copy(t, H.RawMatrix().Data)
	z := make([]float64, N*N)

	// reduce to upper Hessenberg form
	tau := make([]float64, N-1)
	work := make([]float64, 1)
	impl.Dgehrd(N, 0, N-1, t, N, tau, work, -1)
	work = make([]float64, max(N, int(work[0])))
	impl.Dgehrd(N, 0, N-1, t, N, tau, work, len(work))

	// generate the orthogonal matrix of the reduction
	copy(z, t)
	work = make([]float64, 1)
	impl.Dorghr(N, 0, N-1, z, N, tau, work, -1)
	work = make([]float64, max(N, int(work[0])))
	impl.Dorghr(N, 0, N-1, z, N, tau, work, len(work))

	// clear the reflectors stored below the subdiagonal
	for i := 2; i < N; i++ {
		for j := 0; j < i-1; j++ {
			t[i*N+j] = 0
		}
	}

	wr := make([]float64, N)
	wi := make([]float64, N)
	work = make([]float64, 1)
	impl.Dhseqr(lapack.EigenvaluesAndSchur, lapack.SchurOrig, N, 0, N-1, t, N, wr, wi, z, N, work, -1)
	work = make([]float64, max(N, int(work[0])))
	if unconverged := impl.Dhseqr(lapack.EigenvaluesAndSchur, lapack.SchurOrig, N, 0, N-1, t, N, wr, wi, z, N, work, len(work)); unconverged > 0 {
		return nil, fmt.Errorf("schur decomposition did not converge: %d", unconverged)
	}

	tol := axisTol * math.Max(1, mat.Norm(H, 1))
	stable := 0
	for i := range wr {
		if math.Abs(wr[i]) <= tol {
			return nil, fmt.Errorf("eigenvalue on imaginary axis: %g%+gi", wr[i], wi[i])
		}
		if wr[i] < 0 {
			stable++
		}
	}

	if stable != n {
		return nil, fmt.Errorf("invalid number of stable eigenvalues: %d != %d", stable, n)
	}

	// move stable diagonal blocks to the top left corner
	work = make([]float64, N)
	ks := 0
	for i := 0; i < N; {
		bs := 1
		if i < N-1 && t[(i+1)*N+i] != 0 {
			bs = 2
		}
		if t[i*N+i] < 0 {
			if i != ks {
				_, ilst, ok := impl.Dtrexc(lapack.UpdateSchur, N, t, N, z, N, i, ks, work)
				if !ok {
					return nil, fmt.Errorf("failed to reorder schur form")
				}
				ks = ilst
			}
			ks += bs
		}
		i += bs
	}

	if ks != n || t[n*N+n-1] != 0 {
		return nil, fmt.Errorf("failed to separate stable subspace")
	}

	for i := 0; i < n; i++ {
		if t[i*N+i] >= 0 {
			return nil, fmt.Errorf("failed to separate stable subspace")
		}
	}

	return mat.NewDense(N, N, z), nil
}
