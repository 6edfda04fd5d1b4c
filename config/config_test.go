package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/mascc/dashboard"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "Arizona", cfg.DefaultState)
	assert.Equal(t, 10, cfg.TopN)
}

func TestLoad_ExplicitMissingFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mascc.yaml")
	data := "main_csv: s3://bucket/ma_scc_latest.csv\n" +
		"default_state: Ohio\n" +
		"top_n: 5\n" +
		"year_over_year: calendar\n" +
		"s3:\n  region: us-west-2\n  endpoint: http://localhost:9000\n  path_style: true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/ma_scc_latest.csv", cfg.MainCSV)
	assert.Equal(t, DefaultKPICSV, cfg.KPICSV)
	assert.Equal(t, "Ohio", cfg.DefaultState)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "us-west-2", cfg.S3.Region)
	assert.True(t, cfg.S3.PathStyle)

	opts, err := cfg.AggregateOptions()
	require.NoError(t, err)
	assert.Equal(t, dashboard.AggregateOptions{TopN: 5, YearOverYear: dashboard.YearOverYearCalendar}, opts)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "top_n: [1, 2\n"},
		{"bad top_n", "top_n: -1\n"},
		{"bad yoy", "year_over_year: fiscal\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mascc.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvVar, "/etc/mascc.yaml")
	assert.Equal(t, "flag.yaml", Path("flag.yaml"))
	assert.Equal(t, "/etc/mascc.yaml", Path(""))

	t.Setenv(EnvVar, "")
	assert.Equal(t, "", Path(""))
}
