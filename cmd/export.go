package cmd

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/zalepa/mascc/dashboard"
)

// Export implements the "export" subcommand: write the aggregated series,
// KPIs and ranking for one selection as CSV or XLSX.
func Export(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	common := addCommonFlags(fs)
	format := fs.String("format", "", "csv or xlsx (default from the output file extension)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mascc export <output.csv | output.xlsx> [flags]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(fs, args))

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	out := fs.Arg(0)
	if *format == "" {
		*format = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	}
	if *format != "csv" && *format != "xlsx" {
		fmt.Fprintf(os.Stderr, "invalid --format %q; valid options: csv, xlsx\n", *format)
		os.Exit(1)
	}

	cfg := mustSetup(common)
	opts := mustAggregateOptions(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	set := mustLoad(ctx, cfg)

	_, res := resolve(set, cfg, common.selection(), opts)
	if err := writeExport(out, *format, res); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", out, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", out)
}

func writeExport(path, format string, res dashboard.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if format == "xlsx" {
		err = writeXLSX(f, res)
	} else {
		err = writeCSV(f, res)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// exportRows flattens res into section/label/value records.
func exportRows(res dashboard.Result) [][]string {
	text := res.KPIs.Text()
	rows := [][]string{
		{"kpi", "state", res.Selection.State},
		{"kpi", "county", res.Selection.County},
		{"kpi", "parents", strings.Join(res.Selection.Parents, "; ")},
		{"kpi", "latest_month", res.LatestMonth},
		{"kpi", "current", text.Current},
		{"kpi", "month_over_month", text.MonthOverMonth},
		{"kpi", "year_over_year", text.YearOverYear},
	}
	for _, p := range res.Series {
		rows = append(rows, []string{"trend", p.Month, formatFloat(p.Total)})
	}
	for _, o := range res.Top {
		rows = append(rows, []string{"top", o.Name, formatFloat(o.Total)})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeCSV(w io.Writer, res dashboard.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"section", "label", "value"}); err != nil {
		return err
	}
	if err := cw.WriteAll(exportRows(res)); err != nil {
		return err
	}
	return cw.Error()
}

const (
	sheetTrend = "Trend"
	sheetTop   = "Top Organizations"
	sheetKPIs  = "KPIs"
)

func writeXLSX(w io.Writer, res dashboard.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTrend); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetTop); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetKPIs); err != nil {
		return err
	}

	trend := [][]any{{"Month", "Enrollment"}}
	for _, p := range res.Series {
		trend = append(trend, []any{p.Month, p.Total})
	}
	top := [][]any{{"Rank", "Parent Org", "Enrollment"}}
	for i, o := range res.Top {
		top = append(top, []any{i + 1, o.Name, o.Total})
	}
	text := res.KPIs.Text()
	kpis := [][]any{
		{"State", res.Selection.State},
		{"County", res.Selection.County},
		{"Parents", strings.Join(res.Selection.Parents, "; ")},
		{"Latest month", res.LatestMonth},
		{"Current", text.Current},
		{"Month over month", text.MonthOverMonth},
		{"Year over year", text.YearOverYear},
	}

	for sheet, rows := range map[string][][]any{sheetTrend: trend, sheetTop: top, sheetKPIs: kpis} {
		if err := setRows(f, sheet, rows); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetTop, "B", "B", 40); err != nil {
		return err
	}
	return f.Write(w)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
