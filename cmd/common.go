package cmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/zalepa/mascc/config"
	"github.com/zalepa/mascc/dashboard"
	"github.com/zalepa/mascc/dataset"
	"github.com/zalepa/mascc/logging"
)

// loadFailureMessage is shown when either processed CSV cannot be read.
const loadFailureMessage = "Failed to load CSVs from data/processed/. Run the ETL and commit the outputs."

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// commonFlags are shared by every subcommand that reads the datasets.
type commonFlags struct {
	config  string
	mainCSV string
	kpiCSV  string
	state   string
	county  string
	parents stringList
	verbose bool
	quiet   bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	f := &commonFlags{}
	fs.StringVar(&f.config, "config", "", "config file (default ./mascc.yaml or $"+config.EnvVar+")")
	fs.StringVar(&f.mainCSV, "main", "", "main enrollment CSV: path, http(s) URL or s3://bucket/key")
	fs.StringVar(&f.kpiCSV, "kpi", "", "county KPI CSV: path, http(s) URL or s3://bucket/key")
	fs.StringVar(&f.state, "state", "", "state filter (default from config, else first state)")
	fs.StringVar(&f.county, "county", "", "county filter (default first county of the state)")
	fs.Var(&f.parents, "parent", "parent organization filter; repeat for several")
	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
	fs.BoolVar(&f.quiet, "q", false, "only log warnings and errors")
	return f
}

// setup configures logging and returns the effective configuration: the
// config file with flag overrides applied.
func (f *commonFlags) setup() (*config.Config, error) {
	logging.Setup(f.verbose, f.quiet)

	cfg, err := config.Load(config.Path(f.config))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if f.mainCSV != "" {
		cfg.MainCSV = f.mainCSV
	}
	if f.kpiCSV != "" {
		cfg.KPICSV = f.kpiCSV
	}
	return cfg, nil
}

// selection is the partial selection named on the command line.
func (f *commonFlags) selection() dashboard.Selection {
	return dashboard.NewSelection(f.state, f.county, f.parents...)
}

// loadSet fetches both datasets. It builds an S3 client only when one of the
// sources lives in S3.
func loadSet(ctx context.Context, cfg *config.Config) (*dataset.Set, error) {
	loader := &dataset.Loader{}
	if dataset.IsS3(cfg.MainCSV) || dataset.IsS3(cfg.KPICSV) {
		client, err := dataset.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		loader.S3 = client
	}

	start := time.Now()
	set, err := loader.LoadSet(ctx, cfg.MainCSV, cfg.KPICSV)
	if err != nil {
		return nil, err
	}
	if missing := dataset.MissingColumns(set.MainHeader); len(missing) > 0 {
		slog.Warn("main csv is missing columns", "source", cfg.MainCSV, "columns", missing)
	}
	slog.Info("datasets loaded",
		"main_rows", len(set.Main),
		"kpi_rows", len(set.KPI),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return set, nil
}

// mustLoad loads both datasets or exits with the load failure message.
// Nothing is rendered after a failed load.
func mustLoad(ctx context.Context, cfg *config.Config) *dataset.Set {
	set, err := loadSet(ctx, cfg)
	if err != nil {
		slog.Error("load failed", "err", err)
		fmt.Fprintln(os.Stderr, loadFailureMessage)
		os.Exit(1)
	}
	return set
}

func mustSetup(f *commonFlags) *config.Config {
	cfg, err := f.setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func mustAggregateOptions(cfg *config.Config) dashboard.AggregateOptions {
	opts, err := cfg.AggregateOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return opts
}

// resolve derives the options for the command-line selection and aggregates
// the resolved selection.
func resolve(set *dataset.Set, cfg *config.Config, partial dashboard.Selection, opts dashboard.AggregateOptions) (dashboard.Options, dashboard.Result) {
	o := dashboard.DeriveOptions(set.Main, partial, cfg.DefaultState)
	return o, dashboard.Aggregate(set.Main, o.Selection, opts)
}

// reorderArgs moves positional arguments to the end so that Go's flag package
// can parse all flags regardless of where a positional argument appears.
// Boolean flags registered on fs never consume the following argument.
func reorderArgs(fs *flag.FlagSet, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return append(append(flags, "--"), append(positional, args[i+1:]...)...)
		}
		if strings.HasPrefix(args[i], "-") {
			flags = append(flags, args[i])
			if isBoolFlag(fs, args[i]) || strings.Contains(args[i], "=") {
				continue
			}
			// Consume the next arg as the flag's value unless it looks like a flag itself.
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				flags = append(flags, args[i+1])
				i++
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}

func isBoolFlag(fs *flag.FlagSet, arg string) bool {
	f := fs.Lookup(strings.TrimLeft(arg, "-"))
	if f == nil {
		return false
	}
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
