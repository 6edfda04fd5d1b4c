package chart

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/zalepa/mascc/dashboard"
)

const (
	pageWidth    = 11 * vg.Inch
	pageHeight   = 8.5 * vg.Inch
	pdfMargin    = 0.75 * vg.Inch
	headerHeight = 1.1 * vg.Inch
)

// WriteReport renders res as a two-page landscape PDF: the trend chart under
// a KPI header, then the top organizations chart.
func WriteReport(w io.Writer, res dashboard.Result) error {
	trend, err := Trend(res)
	if err != nil {
		return err
	}
	top, err := Top(res)
	if err != nil {
		return err
	}
	trend.Title.Text = pdfSafe(trend.Title.Text)
	top.Title.Text = pdfSafe(top.Title.Text)

	c := vgpdf.New(pageWidth, pageHeight)

	dc := draw.New(c)
	area := draw.Crop(dc, pdfMargin, -pdfMargin, pdfMargin, -pdfMargin)
	drawKPIHeader(area, res)
	trend.Draw(draw.Crop(area, 0, 0, 0, -headerHeight))

	c.NextPage()
	dc = draw.New(c)
	top.Draw(draw.Crop(dc, pdfMargin, -pdfMargin, pdfMargin, -pdfMargin))

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawKPIHeader(area draw.Canvas, res dashboard.Result) {
	text := res.KPIs.Text()
	yTop := area.Max.Y
	fillText(area, "Medicare Advantage Enrollment", vg.Points(14), area.Min.X, yTop-vg.Points(14), color.Black)

	latest := res.LatestMonth
	if latest == "" {
		latest = "no data"
	}
	sub := fmt.Sprintf("%s, %s (latest month: %s)", res.Selection.State, res.Selection.County, latest)
	if len(res.Selection.Parents) > 0 {
		sub += "; parents: " + strings.Join(res.Selection.Parents, ", ")
	}
	fillText(area, pdfSafe(sub), vg.Points(10), area.Min.X, yTop-0.35*vg.Inch, color.Gray{Y: 100})

	y := yTop - 0.75*vg.Inch
	col := (area.Max.X - area.Min.X) / 3
	kpis := []struct{ label, value string }{
		{"Current", text.Current},
		{"Month over month", text.MonthOverMonth},
		{"Year over year", text.YearOverYear},
	}
	for i, k := range kpis {
		x := area.Min.X + vg.Length(i)*col
		fillText(area, k.label, vg.Points(9), x, y+vg.Points(12), color.Gray{Y: 80})
		fillText(area, pdfSafe(k.value), vg.Points(12), x, y-vg.Points(2), color.Black)
	}
	strokeHLine(area, area.Min.X, area.Max.X, y-vg.Points(10), color.Gray{Y: 180})
}

// pdfSafe swaps dashes the Liberation font in vgpdf doesn't render for a
// plain hyphen.
func pdfSafe(s string) string {
	s = strings.ReplaceAll(s, "\u2014", "-")
	return strings.ReplaceAll(s, "\u2013", "-")
}

func fillText(c draw.Canvas, txt string, size vg.Length, x, y vg.Length, clr color.Color) {
	sty := draw.TextStyle{
		Color:   clr,
		Font:    plot.DefaultFont,
		Handler: plot.DefaultTextHandler,
	}
	sty.Font.Size = size
	c.FillText(sty, vg.Point{X: x, Y: y}, txt)
}

func strokeHLine(c draw.Canvas, x0, x1, y vg.Length, clr color.Color) {
	c.StrokeLine2(draw.LineStyle{
		Color: clr,
		Width: vg.Points(0.5),
	}, x0, y, x1, y)
}
