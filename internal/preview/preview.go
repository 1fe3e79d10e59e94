// Package preview renders a waypoint sequence to a PNG image so a routine
// can be inspected before any command reaches the device.
package preview

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ballet-labs/vacballet/internal/domain"
)

// Render draws the sequence as a connected path with waypoint markers and
// writes a PNG to path. The axes are map millimetres.
func Render(seq []domain.Point, title, path string) error {
	if len(seq) == 0 {
		return fmt.Errorf("empty waypoint sequence")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (mm)"
	p.Y.Label.Text = "Y (mm)"

	pts := make(plotter.XYs, len(seq))
	for i, wp := range seq {
		pts[i] = plotter.XY{X: float64(wp.X), Y: float64(wp.Y)}
	}

	line, markers, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("build path: %w", err)
	}
	line.Color = color.RGBA{B: 200, A: 255}
	markers.GlyphStyle.Shape = draw.CircleGlyph{}
	markers.GlyphStyle.Radius = vg.Points(2)
	markers.GlyphStyle.Color = color.RGBA{R: 200, A: 255}

	p.Add(plotter.NewGrid(), line, markers)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
