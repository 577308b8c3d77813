package sim

import (
	"fmt"
	"image/color"

	pendulum "github.com/milosgajdos/go-pendulum"
	"github.com/milosgajdos/go-pendulum/model"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var outputColors = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
}

// NewTrajectoryPlot creates new time series plot of the pendulum outputs
// x, y, z, θ and φ which obs observes in trajectory traj.
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * traj is nil or empty
// * obs fails to observe traj or does not produce the pendulum outputs
// * gonum plot fails to be created
func NewTrajectoryPlot(traj *Trajectory, obs pendulum.Observer, title string) (*plot.Plot, error) {
	if traj == nil || traj.Len() == 0 {
		return nil, fmt.Errorf("invalid trajectory supplied")
	}

	outputs, err := traj.Outputs(obs)
	if err != nil {
		return nil, err
	}

	if ny, _ := outputs.Dims(); ny != len(model.OutputNames) {
		return nil, fmt.Errorf("invalid output dimensions: %d", ny)
	}

	p := plot.New()

	p.Title.Text = title
	p.X.Label.Text = "t [s]"
	p.Y.Label.Text = "q"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	p.Add(plotter.NewGrid())

	times := traj.Times()
	for i, name := range model.OutputNames {
		line, err := plotter.NewLine(makePoints(times, mat.Row(nil, i, outputs)))
		if err != nil {
			return nil, fmt.Errorf("failed to create line: %v", err)
		}
		line.LineStyle.Color = outputColors[i%len(outputColors)]
		line.LineStyle.Width = vg.Points(1.5)
		// tilt angles θ and φ close the output list
		if i >= len(model.OutputNames)-2 {
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}

		p.Add(line)
		p.Legend.Add(name, line)
	}

	return p, nil
}

func makePoints(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range pts {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}

	return pts
}
