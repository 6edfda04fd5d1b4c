package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"github.com/zalepa/mascc/chart"
	"github.com/zalepa/mascc/dashboard"
)

// Viz implements the "viz" subcommand: render the dashboard for one
// selection in the terminal.
func Viz(args []string) {
	fs := flag.NewFlagSet("viz", flag.ExitOnError)
	common := addCommonFlags(fs)
	listOptions := fs.Bool("options", false, "list the selectable states, counties and parents and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: mascc viz [flags]

Show the enrollment trend, KPIs and top parent organizations in the terminal.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  mascc viz
  mascc viz --state Ohio --county Summit
  mascc viz --state Arizona --county Maricopa --parent "Humana Inc." --parent "UnitedHealth Group, Inc."
  mascc viz --state Ohio --options
`)
	}
	fs.Parse(args)

	cfg := mustSetup(common)
	opts := mustAggregateOptions(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	set := mustLoad(ctx, cfg)

	o, res := resolve(set, cfg, common.selection(), opts)
	if *listOptions {
		renderOptions(os.Stdout, o)
		return
	}
	renderDashboard(os.Stdout, res)
}

func renderOptions(w io.Writer, o dashboard.Options) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", bold("States:"), strings.Join(o.States, ", "))
	fmt.Fprintf(w, "%s %s\n", bold("Counties in "+o.Selection.State+":"), strings.Join(o.Counties, ", "))
	fmt.Fprintf(w, "%s\n", bold("Parent organizations in "+o.Selection.County+":"))
	for _, p := range o.Parents {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

func renderDashboard(w io.Writer, res dashboard.Result) {
	text := res.KPIs.Text()
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(w, "%s  %s   %s  %s   %s  %s\n\n",
		faint("Current"), bold(text.Current),
		faint("MoM"), colorDelta(text.MonthOverMonth),
		faint("YoY"), colorDelta(text.YearOverYear))

	renderChart(w, res.TrendTitle(), res.Series)
	fmt.Fprintln(w)
	renderTop(w, res.TopTitle(), res.Top)
}

// colorDelta paints decreases red and increases green.
func colorDelta(s string) string {
	switch {
	case s == dashboard.Missing:
		return s
	case strings.HasPrefix(s, "-"):
		return color.RedString(s)
	case strings.HasPrefix(s, "0 "), s == "0":
		return s
	default:
		return color.GreenString("+" + s)
	}
}

// renderTop prints the ranking largest first with proportional bars.
func renderTop(w io.Writer, title string, top []dashboard.OrgTotal) {
	fmt.Fprintln(w, title)
	if len(top) == 0 {
		fmt.Fprintln(w, "(no data)")
		return
	}

	maxName := 10
	for _, o := range top {
		if n := len([]rune(o.Name)); n > maxName {
			maxName = n
		}
	}
	if maxName > 40 {
		maxName = 40
	}

	const barWidth = 40
	maxVal := top[0].Total
	bar := color.New(color.FgCyan).SprintFunc()
	rowFmt := fmt.Sprintf("%%-%ds  %%10s  %%s\n", maxName)
	for _, o := range top {
		n := 0
		if maxVal > 0 {
			n = int(math.Round(o.Total / maxVal * barWidth))
		}
		v := o.Total
		fmt.Fprintf(w, rowFmt, truncate(o.Name, maxName), dashboard.FormatNumber(&v), bar(strings.Repeat("█", n)))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// renderChart draws the trend as a terminal line chart: one marker per month
// joined by interpolated dots.
func renderChart(w io.Writer, title string, points []dashboard.Point) {
	fmt.Fprintln(w, title)
	if len(points) == 0 {
		fmt.Fprintln(w, "(no data)")
		return
	}
	fmt.Fprintln(w)

	height := 15
	nPoints := len(points)

	// Determine column width: try to fit in ~100 chars for the data area.
	labelWidth := 10 // y-axis label area
	available := 100 - labelWidth
	colWidth := available / nPoints
	if colWidth > 8 {
		colWidth = 8
	}
	if colWidth < 3 {
		colWidth = 3
	}

	// Enrollment charts start at zero.
	minVal, maxVal := 0.0, points[0].Total
	for _, p := range points {
		minVal = math.Min(minVal, p.Total)
		maxVal = math.Max(maxVal, p.Total)
	}
	valRange := maxVal - minVal
	if valRange == 0 {
		valRange = 1
		maxVal = minVal + 1
	}

	// Map each point to a row (0 = bottom, height-1 = top).
	pointRows := make([]int, nPoints)
	for i, p := range points {
		row := int(math.Round((p.Total - minVal) / valRange * float64(height-1)))
		pointRows[i] = clampRow(row, height)
	}

	totalWidth := nPoints * colWidth
	grid := make([][]rune, height)
	for r := 0; r < height; r++ {
		grid[r] = make([]rune, totalWidth)
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}

	for i := 0; i < nPoints; i++ {
		col := i*colWidth + colWidth/2
		grid[pointRows[i]][col] = '●'

		if i < nPoints-1 {
			startCol := col
			endCol := (i+1)*colWidth + colWidth/2
			startRow := pointRows[i]
			endRow := pointRows[i+1]
			colSpan := endCol - startCol
			for c := startCol + 1; c < endCol; c++ {
				t := float64(c-startCol) / float64(colSpan)
				r := clampRow(int(math.Round(float64(startRow)+t*float64(endRow-startRow))), height)
				if grid[r][c] == ' ' {
					grid[r][c] = '·'
				}
			}
		}
	}

	// Y-axis labels: 5 evenly spaced.
	yLabels := make(map[int]string)
	for i := 0; i < 5; i++ {
		row := int(math.Round(float64(i) / 4.0 * float64(height-1)))
		val := minVal + float64(row)/float64(height-1)*valRange
		yLabels[row] = chart.FormatCompact(val)
	}

	for r := height - 1; r >= 0; r-- {
		fmt.Fprintf(w, "%8s │%s\n", yLabels[r], string(grid[r]))
	}
	fmt.Fprintf(w, "%8s └%s\n", "", strings.Repeat("─", totalWidth))

	// X-axis labels, thinned so that each one has room.
	labelEvery := 1
	if colWidth < 8 {
		labelEvery = (8 + colWidth - 1) / colWidth
	}
	xLine := make([]byte, totalWidth)
	for i := range xLine {
		xLine[i] = ' '
	}
	for i := 0; i < nPoints; i += labelEvery {
		label := points[i].Month
		pos := i*colWidth + colWidth/2 - len(label)/2
		if pos < 0 {
			pos = 0
		}
		for j := 0; j < len(label) && pos+j < totalWidth; j++ {
			xLine[pos+j] = label[j]
		}
	}
	fmt.Fprintf(w, "%8s  %s\n", "", string(xLine))
}

func clampRow(r, height int) int {
	if r < 0 {
		return 0
	}
	if r >= height {
		return height - 1
	}
	return r
}
