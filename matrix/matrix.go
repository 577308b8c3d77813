package matrix

import (
	"fmt"
	"math"

	identity "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Eye returns n x n identity matrix scaled by val.
// It returns error if n is non-positive.
func Eye(n int, val float64) (*mat.SymDense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid matrix size: %d", n)
	}

	eye, err := identity.NewDenseValIdentity(n, val)
	if err != nil {
		return nil, err
	}

	return ToSym(eye)
}

// Diag returns a symmetric matrix with vals on its diagonal.
// It returns error if vals is empty.
func Diag(vals []float64) (*mat.SymDense, error) {
	if len(vals) == 0 {
		return nil, fmt.Errorf("invalid diagonal: %v", vals)
	}

	m := mat.NewSymDense(len(vals), nil)
	for i, v := range vals {
		m.SetSym(i, i, v)
	}

	return m, nil
}

// ToSym converts square matrix m to symmetric matrix by averaging
// its off-diagonal elements: (m + m')/2
// It returns error if m is not square.
func ToSym(m mat.Matrix) (*mat.SymDense, error) {
	r, c := m.Dims()
	if r != c {
		return nil, fmt.Errorf("invalid matrix dimensions: [%d x %d]", r, c)
	}

	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < c; j++ {
			s.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}

	return s, nil
}

// IsFinite returns true if all elements of m are finite.
func IsFinite(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}

	return true
}

// MaxRealEig returns the largest real part of the eigenvalues of square matrix m.
// It returns error if m is not square or eigen decomposition fails.
func MaxRealEig(m mat.Matrix) (float64, error) {
	r, c := m.Dims()
	if r != c {
		return 0, fmt.Errorf("invalid matrix dimensions: [%d x %d]", r, c)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(m, mat.EigenNone); !ok {
		return 0, fmt.Errorf("eigen decomposition failed")
	}

	vals := eig.Values(nil)
	re := make([]float64, len(vals))
	for i, v := range vals {
		re[i] = real(v)
	}

	return floats.Max(re), nil
}

// VecNorm returns Euclidean norm of the difference a - b.
// If b is nil it returns the norm of a.
// It panics if a and b have different lengths.
func VecNorm(a, b mat.Vector) float64 {
	d := make([]float64, a.Len())
	for i := range d {
		d[i] = a.AtVec(i)
		if b != nil {
			d[i] -= b.AtVec(i)
		}
	}

	return floats.Norm(d, 2)
}
