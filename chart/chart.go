// Package chart renders dashboard results with gonum/plot: the enrollment
// trend as a line with markers and the top organizations as horizontal bars.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/zalepa/mascc/dashboard"
)

var (
	trendColor = color.RGBA{R: 0x7c, G: 0x5c, B: 0xff, A: 255}
	barColor   = color.RGBA{R: 0x4c, G: 0xc3, B: 0xd9, A: 255}
)

// Default image size for encoded charts.
const (
	DefaultWidth  = 9 * vg.Inch
	DefaultHeight = 4.5 * vg.Inch
)

// Trend builds the enrollment trend line chart for res. An empty series
// yields a titled plot with no data.
func Trend(res dashboard.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = res.TrendTitle()
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Enrollment"
	p.Add(plotter.NewGrid())

	months := make([]string, len(res.Series))
	for i, pt := range res.Series {
		months[i] = pt.Month
	}
	p.X.Tick.Marker = monthTicks(months)
	p.Y.Tick.Marker = numTicks{}
	if len(months) == 0 {
		return p, nil
	}

	pts := make(plotter.XYs, len(res.Series))
	minY := 0.0
	for i, pt := range res.Series {
		pts[i] = plotter.XY{X: float64(i), Y: pt.Total}
		minY = math.Min(minY, pt.Total)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("trend line: %w", err)
	}
	line.Color = trendColor
	line.Width = vg.Points(2)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("trend markers: %w", err)
	}
	scatter.Color = trendColor
	scatter.Radius = vg.Points(3)
	scatter.Shape = draw.CircleGlyph{}

	p.Add(line, scatter)

	p.X.Min = -0.5
	p.X.Max = float64(len(months)) - 0.5
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = minY
	return p, nil
}

// Top builds the top organizations bar chart for res. Bars run in ascending
// order from the bottom so the largest organization is drawn on top.
func Top(res dashboard.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = res.TopTitle()
	p.X.Label.Text = "Enrollment"
	p.Y.Label.Text = "Parent Org"
	p.X.Tick.Marker = numTicks{}
	if len(res.Top) == 0 {
		return p, nil
	}

	n := len(res.Top)
	values := make(plotter.Values, n)
	names := make([]string, n)
	for i, org := range res.Top {
		values[n-1-i] = org.Total
		names[n-1-i] = org.Name
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("top bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0

	p.Add(bars, plotter.NewGrid())
	p.NominalY(names...)
	p.X.Min = 0
	return p, nil
}

// Encode writes p to w in the given image format (svg, png or pdf).
func Encode(w io.Writer, p *plot.Plot, format string, width, height vg.Length) error {
	switch format {
	case "svg", "png", "pdf":
	default:
		return fmt.Errorf("unsupported chart format %q", format)
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
