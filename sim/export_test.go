package sim

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"testing"

	"github.com/milosgajdos/go-pendulum/model"
	"github.com/stretchr/testify/assert"
)

type failWriter struct{}

func (f failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestCSVExporter(t *testing.T) {
	assert := assert.New(t)

	s, err := New(nonlin, ctl, nil)
	assert.NoError(err)
	traj, err := s.Run(q0, nil, ts, n)
	assert.NoError(err)

	var buf bytes.Buffer
	err = NewCSVExporter(&buf).Write(traj)
	assert.NoError(err)

	records, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(err)
	assert.Len(records, n+1)

	header := records[0]
	assert.Len(header, 1+model.StateLen+model.InputLen)
	assert.Equal("t", header[0])
	assert.Equal("q0", header[1])
	assert.Equal("q11", header[model.StateLen])
	assert.Equal("u0", header[1+model.StateLen])
	assert.Equal("u2", header[model.StateLen+model.InputLen])

	for k, rec := range records[1:] {
		tk, err := strconv.ParseFloat(rec[0], 64)
		assert.NoError(err)
		assert.Equal(traj.Time(k), tk)
	}

	theta, err := strconv.ParseFloat(records[1][1+model.Theta], 64)
	assert.NoError(err)
	assert.Equal(0.1, theta)

	last := records[n]
	for i := 0; i < model.InputLen; i++ {
		assert.Equal("0", last[1+model.StateLen+i])
	}

	assert.Error(NewCSVExporter(&buf).Write(nil))
	assert.Error(NewCSVExporter(failWriter{}).Write(traj))
}
