// Package render draws chart specifications to PNG with gonum/plot for clients
// that cannot run a JavaScript renderer.
package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"gdpdash/domain/charts"
)

// Default image size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// Trace fills in order; the histogram's first trace is the later year.
var palette = []color.RGBA{
	{R: 99, G: 110, B: 250, A: 255},
	{R: 239, G: 85, B: 59, A: 255},
	{R: 0, G: 204, B: 150, A: 255},
}

// HistogramPNG draws the overlaid traces of spec as translucent bars.
func HistogramPNG(w io.Writer, spec *charts.HistogramSpec, width, height vg.Length) error {
	p := plot.New()
	p.Title.Text = spec.Layout.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = spec.Layout.XAxis.Title
	p.Y.Label.Text = spec.Layout.YAxis.Title
	p.X.Min = 0
	p.Y.Min = 0
	p.Legend.Top = true

	for i, tr := range spec.Traces {
		bins := make([]plotter.HistogramBin, len(tr.Counts))
		for b, n := range tr.Counts {
			lo := tr.XBins.Start + float64(b)*tr.XBins.Size
			bins[b] = plotter.HistogramBin{Min: lo, Max: lo + tr.XBins.Size, Weight: float64(n)}
		}

		h := &plotter.Histogram{
			Bins:      bins,
			Width:     tr.XBins.Size,
			FillColor: fill(palette[i%len(palette)], tr.Opacity),
			LineStyle: draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)},
		}
		p.Add(h)
		p.Legend.Add(tr.Name, h)
	}
	p.X.Max = maxEnd(spec)

	return write(w, p, width, height)
}

// TrendPNG draws a country's series. Missing years break the line.
func TrendPNG(w io.Writer, spec *charts.LineSpec, width, height vg.Length) error {
	p := plot.New()
	p.Title.Text = spec.Layout.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = spec.Layout.XAxis.Title
	p.Y.Label.Text = spec.Layout.YAxis.Title
	p.Add(plotter.NewGrid())

	var segment plotter.XYs
	flush := func() error {
		if len(segment) == 0 {
			return nil
		}
		line, points, err := plotter.NewLinePoints(segment)
		if err != nil {
			return fmt.Errorf("failed to build trend line: %w", err)
		}
		line.Width = vg.Points(2)
		line.Color = palette[0]
		points.Radius = vg.Points(1.5)
		points.Color = palette[0]
		p.Add(line, points)
		segment = nil
		return nil
	}

	for i, year := range spec.Data.X {
		v := spec.Data.Y[i]
		if !v.Valid {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		segment = append(segment, plotter.XY{X: float64(year), Y: v.V})
	}
	if err := flush(); err != nil {
		return err
	}

	return write(w, p, width, height)
}

func write(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

func fill(c color.RGBA, opacity float64) color.NRGBA {
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(opacity * 255)}
}

func maxEnd(spec *charts.HistogramSpec) float64 {
	end := 1.0
	for _, tr := range spec.Traces {
		if tr.XBins.End > end {
			end = tr.XBins.End
		}
	}
	return end
}
