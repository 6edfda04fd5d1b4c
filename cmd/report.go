package cmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/zalepa/mascc/chart"
	"github.com/zalepa/mascc/dashboard"
)

// Report implements the "report" subcommand: write the dashboard for one
// selection as a PDF.
func Report(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	common := addCommonFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mascc report [output.pdf] [flags]\n\nWrite the trend and top organizations charts to a PDF (default report.pdf).\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(fs, args))

	out := "report.pdf"
	if fs.NArg() > 0 {
		out = fs.Arg(0)
	}

	cfg := mustSetup(common)
	opts := mustAggregateOptions(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	set := mustLoad(ctx, cfg)

	_, res := resolve(set, cfg, common.selection(), opts)
	pages, err := writeReport(out, res)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing PDF: %v\n", err)
		os.Exit(1)
	}
	slog.Debug("report written", "path", out, "state", res.Selection.State, "county", res.Selection.County)
	fmt.Printf("wrote %s (%d pages)\n", out, pages)
}

// writeReport renders res to path and reads the file back to confirm it is
// a readable PDF, returning its page count.
func writeReport(path string, res dashboard.Result) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	if err := chart.WriteReport(f, res); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	rf, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer rf.Close()
	return chart.PageCount(rf)
}
