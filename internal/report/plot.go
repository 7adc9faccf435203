package report

import (
	"fmt"

	"github.com/banshee-data/contact.report/internal/trace"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotTrajectories saves a PNG (or any format gonum/plot infers from the
// extension) of every trajectory path, framed by anchors.
func PlotTrajectories(path string, trajs []*trace.Trajectory, anchors trace.Anchors) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Trajectories (%d)", len(trajs))
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	colors := Palette(len(trajs))
	for i, t := range trajs {
		pts := make(plotter.XYs, t.Len())
		for j, s := range t.Samples() {
			pts[j] = plotter.XY{X: s.X, Y: s.Y}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("trajectory %s: %w", t.ID, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(t.ID, line)

		// Mark where each entity starts.
		start, err := plotter.NewScatter(pts[:1])
		if err != nil {
			return fmt.Errorf("trajectory %s: %w", t.ID, err)
		}
		start.GlyphStyle.Color = colors[i]
		p.Add(start)
	}

	size := anchors.Size()
	padX, padY := size.X*0.05, size.Y*0.05
	if padX == 0 {
		padX = 1
	}
	if padY == 0 {
		padY = 1
	}
	p.X.Min, p.X.Max = anchors.Min.X-padX, anchors.Max.X+padX
	p.Y.Min, p.Y.Max = anchors.Min.Y-padY, anchors.Max.Y+padY

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(10*vg.Inch, 10*vg.Inch, path); err != nil {
		return fmt.Errorf("save trajectory plot: %w", err)
	}
	return nil
}
