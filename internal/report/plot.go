package report

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/blend/pkg/errors"
)

// PlotOutOfFold saves a scatter of every out-of-fold column against y, plus
// the identity line. The format follows the file extension of path.
func PlotOutOfFold(oof mat.Matrix, y mat.Matrix, columns []string, path string) error {
	n, b := oof.Dims()
	if len(columns) != b {
		return errors.NewDimensionError("PlotOutOfFold", b, len(columns), 1)
	}
	if ny, _ := y.Dims(); ny != n {
		return errors.NewDimensionError("PlotOutOfFold", n, ny, 0)
	}
	if n == 0 {
		return errors.NewValueError("PlotOutOfFold", "no rows to plot")
	}

	p := plot.New()
	p.Title.Text = "Out-of-fold predictions"
	p.X.Label.Text = "target"
	p.Y.Label.Text = "prediction"

	lo, hi := y.At(0, 0), y.At(0, 0)
	for j := 0; j < b; j++ {
		pts := make(plotter.XYs, n)
		for i := 0; i < n; i++ {
			pts[i] = plotter.XY{X: y.At(i, 0), Y: oof.At(i, j)}
			lo = min(lo, pts[i].X, pts[i].Y)
			hi = max(hi, pts[i].X, pts[i].Y)
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return errors.Wrapf(err, "scatter %s", columns[j])
		}
		s.GlyphStyle.Color = plotutil.Color(j)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(columns[j], s)
	}

	ident, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "identity line")
	}
	ident.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(ident)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrap(err, "save plot")
	}
	return nil
}
