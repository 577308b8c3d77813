package pendulum

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelError(t *testing.T) {
	assert := assert.New(t)

	var err error = &ModelError{Param: "radius", Value: -1}
	assert.True(errors.Is(err, ErrModel))
	assert.False(errors.Is(err, ErrDesign))
	assert.Contains(err.Error(), "radius")

	wrapped := fmt.Errorf("build: %w", err)
	var me *ModelError
	assert.True(errors.As(wrapped, &me))
	assert.Equal(-1.0, me.Value)
}

func TestDesignError(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("boom")
	var err error = &DesignError{Reason: "schur", Err: cause}
	assert.True(errors.Is(err, ErrDesign))
	assert.True(errors.Is(err, cause))
	assert.Equal("lqr: schur: boom", err.Error())

	err = &DesignError{Reason: "not stabilizable"}
	assert.True(errors.Is(err, ErrDesign))
	assert.Equal("lqr: not stabilizable", err.Error())
}

func TestSingularityError(t *testing.T) {
	assert := assert.New(t)

	var err error = &SingularityError{Step: 7, Time: 0.35, Cause: "cos(q4)=0"}
	assert.True(errors.Is(err, ErrSingular))
	assert.Contains(err.Error(), "step 7")

	var se *SingularityError
	assert.True(errors.As(fmt.Errorf("run: %w", err), &se))
	assert.Equal(7, se.Step)
}
