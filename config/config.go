// Package config handles the optional mascc.yaml configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zalepa/mascc/dashboard"
	"github.com/zalepa/mascc/dataset"
)

// FileName is the config file read from the working directory when no path
// is given.
const FileName = "mascc.yaml"

// EnvVar names a config file path, consulted when no --config flag is given.
const EnvVar = "MASCC_CONFIG"

// Default data locations, relative to the working directory.
const (
	DefaultMainCSV = "data/processed/ma_scc_latest.csv"
	DefaultKPICSV  = "data/processed/ma_scc_kpis_county.csv"
	DefaultPort    = "8080"
)

// Config represents the contents of a mascc.yaml file.
type Config struct {
	MainCSV      string           `yaml:"main_csv,omitempty"`
	KPICSV       string           `yaml:"kpi_csv,omitempty"`
	DefaultState string           `yaml:"default_state,omitempty"`
	TopN         int              `yaml:"top_n,omitempty"`
	YearOverYear string           `yaml:"year_over_year,omitempty"`
	Port         string           `yaml:"port,omitempty"`
	S3           dataset.S3Config `yaml:"s3,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		MainCSV:      DefaultMainCSV,
		KPICSV:       DefaultKPICSV,
		DefaultState: dashboard.DefaultState,
		TopN:         dashboard.DefaultTopN,
		YearOverYear: dashboard.YearOverYearPositional.String(),
		Port:         DefaultPort,
	}
}

// Path picks the config file to read: the flag value, then $MASCC_CONFIG.
// An empty result means the default FileName.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvVar)
}

// Load reads the config file at path over the defaults. With an empty path
// it reads FileName and treats a missing file as "use defaults"; a missing
// file that was named explicitly is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", c.TopN)
	}
	if _, err := dashboard.ParseYearOverYear(c.YearOverYear); err != nil {
		return err
	}
	return nil
}

// AggregateOptions converts the aggregation settings.
func (c *Config) AggregateOptions() (dashboard.AggregateOptions, error) {
	yoy, err := dashboard.ParseYearOverYear(c.YearOverYear)
	if err != nil {
		return dashboard.AggregateOptions{}, err
	}
	return dashboard.AggregateOptions{TopN: c.TopN, YearOverYear: yoy}, nil
}
