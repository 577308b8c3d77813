package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVExporter writes trajectories as comma separated values
type CSVExporter struct {
	w *csv.Writer
}

// NewCSVExporter creates new CSVExporter writing to w and returns it
func NewCSVExporter(w io.Writer) *CSVExporter {
	return &CSVExporter{w: csv.NewWriter(w)}
}

// Write writes trajectory traj: a header row t,q0..q{nx-1},u0..u{nu-1}
// followed by one row per sample.
// It returns error if traj is nil or the underlying writer fails.
func (e *CSVExporter) Write(traj *Trajectory) error {
	if traj == nil {
		return fmt.Errorf("invalid trajectory supplied")
	}

	nx, n := traj.q.Dims()
	nu, _ := traj.u.Dims()

	header := make([]string, 0, 1+nx+nu)
	header = append(header, "t")
	for i := 0; i < nx; i++ {
		header = append(header, "q"+strconv.Itoa(i))
	}
	for i := 0; i < nu; i++ {
		header = append(header, "u"+strconv.Itoa(i))
	}

	if err := e.w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for k := 0; k < n; k++ {
		row[0] = formatFloat(traj.Time(k))
		for i := 0; i < nx; i++ {
			row[1+i] = formatFloat(traj.q.At(i, k))
		}
		for i := 0; i < nu; i++ {
			row[1+nx+i] = formatFloat(traj.u.At(i, k))
		}

		if err := e.w.Write(row); err != nil {
			return err
		}
	}

	e.w.Flush()

	return e.w.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
