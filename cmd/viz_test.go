package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zalepa/mascc/dashboard"
)

func TestRenderDashboard(t *testing.T) {
	s := testServer(t)
	res := dashboard.Aggregate(s.set.Main, dashboard.NewSelection("Arizona", "Maricopa"), s.opts)

	var buf bytes.Buffer
	renderDashboard(&buf, res)
	out := buf.String()

	assert.Contains(t, out, "Current  1,227")
	assert.Contains(t, out, "MoM  +67 (5.8%)")
	assert.Contains(t, out, "YoY  —")
	assert.Contains(t, out, "Enrollment Trend — Arizona, Maricopa")
	assert.Contains(t, out, "2024-01")
	assert.Contains(t, out, "Top Parent Organizations — Arizona, Maricopa — 2024-03")

	// Largest first, each with a bar.
	cvs := strings.Index(out, "CVS Health")
	humana := strings.Index(out, "Humana Inc.")
	assert.True(t, cvs > 0 && cvs < humana, "CVS Health should be listed before Humana Inc.")
	assert.Contains(t, out, strings.Repeat("█", 40))
}

func TestRenderDashboard_NoData(t *testing.T) {
	res := dashboard.Result{Selection: dashboard.NewSelection("Guam", "")}
	var buf bytes.Buffer
	renderDashboard(&buf, res)
	assert.Equal(t, 2, strings.Count(buf.String(), "(no data)"))
}

func TestRenderOptions(t *testing.T) {
	s := testServer(t)
	o := dashboard.DeriveOptions(s.set.Main, dashboard.NewSelection("Arizona", ""), s.cfg.DefaultState)

	var buf bytes.Buffer
	renderOptions(&buf, o)
	out := buf.String()
	assert.Contains(t, out, "States: Arizona, Ohio")
	assert.Contains(t, out, "Counties in Arizona: Maricopa, Pima")
	assert.Contains(t, out, "  CVS Health\n  Humana Inc.\n")
}

func TestColorDelta(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{dashboard.Missing, dashboard.Missing},
		{"-30 (-25.0%)", "-30 (-25.0%)"},
		{"20 (20.0%)", "+20 (20.0%)"},
		{"0 (0.0%)", "0 (0.0%)"},
		{"0", "0"},
	}
	for _, tt := range tests {
		if got := colorDelta(tt.input); got != tt.want {
			t.Errorf("colorDelta(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenderChart_SinglePoint(t *testing.T) {
	var buf bytes.Buffer
	renderChart(&buf, "title", []dashboard.Point{{Month: "2024-05", Total: 0}})
	out := buf.String()
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "2024-05")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "UnitedHea…", truncate("UnitedHealth Group", 10))
}
