package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/mascc/config"
	"github.com/zalepa/mascc/dataset"
	"github.com/zalepa/mascc/metrics"
)

const testMainCSV = `state,county,parent_org,org_name,report_period,enrollment
Arizona,Maricopa,Humana Inc.,Humana Health Plan,2024-01-31,100
Arizona,Maricopa,CVS Health,Aetna Medicare,2024-01-31,50
Arizona,Maricopa,Humana Inc.,Humana Health Plan,2024-02-29,110
Arizona,Maricopa,CVS Health,Aetna Medicare,2024-02-29,"1,050"
Arizona,Maricopa,Humana Inc.,Humana Health Plan,2024-03-31,120
Arizona,Maricopa,CVS Health,Aetna Medicare,2024-03-31,"1,100"
Arizona,Maricopa,,Local Plan,2024-03-31,7
Arizona,Pima,UnitedHealth,UHC Plan,2024-03-31,950
Ohio,Summit,CVS Health,Aetna Medicare,2024-03-31,300
`

const testKPICSV = `state,county,penetration,eligibles
Arizona,Maricopa,0.52,"800,000"
Arizona,Pima,0.47,"210,000"
`

func init() {
	color.NoColor = true
}

func writeTestFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

// testConfig writes both CSVs to a temp dir and returns a config pointing
// at them.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.MainCSV = writeTestFile(t, dir, "main.csv", testMainCSV)
	cfg.KPICSV = writeTestFile(t, dir, "kpi.csv", testKPICSV)
	return cfg
}

func testServer(t *testing.T) *server {
	t.Helper()
	cfg := testConfig(t)
	var l dataset.Loader
	set, err := l.LoadSet(t.Context(), cfg.MainCSV, cfg.KPICSV)
	require.NoError(t, err)
	opts, err := cfg.AggregateOptions()
	require.NoError(t, err)
	return &server{set: set, cfg: cfg, opts: opts, metrics: metrics.New()}
}
