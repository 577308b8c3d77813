package noise

import (
	"testing"

	pendulum "github.com/milosgajdos/go-pendulum"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNone(t *testing.T) {
	assert := assert.New(t)

	var wd pendulum.Noise
	wd, err := NewNone()
	assert.NotNil(wd)
	assert.NoError(err)

	assert.Nil(wd.Mean())
	assert.True(wd.Cov().(*mat.SymDense).IsEmpty())

	// samples stay empty across resets
	for i := 0; i < 3; i++ {
		assert.Equal(0, wd.Sample().Len())
		assert.NoError(wd.Reset())
	}
}

func TestNoneString(t *testing.T) {
	assert := assert.New(t)

	n, err := NewNone()
	assert.NoError(err)
	assert.Equal("None{}", n.String())
}
