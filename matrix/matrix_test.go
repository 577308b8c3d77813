package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestEyeDiag(t *testing.T) {
	assert := assert.New(t)

	eye, err := Eye(3, 2.0)
	assert.NoError(err)
	assert.NotNil(eye)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				assert.Equal(2.0, eye.At(i, j))
			} else {
				assert.Equal(0.0, eye.At(i, j))
			}
		}
	}

	eye, err = Eye(0, 1.0)
	assert.Nil(eye)
	assert.Error(err)

	d, err := Diag([]float64{1.0, 2.0})
	assert.NoError(err)
	assert.Equal(2, d.SymmetricDim())
	assert.Equal(2.0, d.At(1, 1))
	assert.Equal(0.0, d.At(0, 1))

	d, err = Diag(nil)
	assert.Nil(d)
	assert.Error(err)
}

func TestToSym(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(2, 2, []float64{1.0, 2.0, 4.0, 3.0})
	s, err := ToSym(m)
	assert.NoError(err)
	assert.Equal(3.0, s.At(0, 1))
	assert.Equal(3.0, s.At(1, 0))
	assert.Equal(1.0, s.At(0, 0))

	s, err = ToSym(mat.NewDense(2, 3, nil))
	assert.Nil(s)
	assert.Error(err)
}

func TestIsFinite(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(2, 2, []float64{1.0, 2.0, 4.0, 3.0})
	assert.True(IsFinite(m))

	m.Set(1, 0, math.NaN())
	assert.False(IsFinite(m))

	m.Set(1, 0, math.Inf(-1))
	assert.False(IsFinite(m))
}

func TestMaxRealEig(t *testing.T) {
	assert := assert.New(t)
	delta := 1e-9

	// eigenvalues: -1, -3
	m := mat.NewDense(2, 2, []float64{-1.0, 1.0, 0.0, -3.0})
	re, err := MaxRealEig(m)
	assert.NoError(err)
	assert.InDelta(-1.0, re, delta)

	// eigenvalues: -0.5 +- 2i
	m = mat.NewDense(2, 2, []float64{-0.5, 2.0, -2.0, -0.5})
	re, err = MaxRealEig(m)
	assert.NoError(err)
	assert.InDelta(-0.5, re, delta)

	_, err = MaxRealEig(mat.NewDense(2, 3, nil))
	assert.Error(err)
}

func TestVecNorm(t *testing.T) {
	assert := assert.New(t)

	a := mat.NewVecDense(2, []float64{3.0, 4.0})
	assert.InDelta(5.0, VecNorm(a, nil), 1e-12)

	b := mat.NewVecDense(2, []float64{3.0, 0.0})
	assert.InDelta(4.0, VecNorm(a, b), 1e-12)

	assert.Panics(func() { VecNorm(a, mat.NewVecDense(1, nil)) })
}
