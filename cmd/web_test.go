package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/mascc/dashboard"
	"github.com/zalepa/mascc/dataset"
)

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestWeb_Index(t *testing.T) {
	h := testServer(t).routes()
	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	for _, id := range []string{"stateSel", "countySel", "parentSel", "kpiCur", "kpiMoM", "kpiYoY", "trend", "topParents"} {
		assert.Contains(t, rec.Body.String(), `id="`+id+`"`)
	}

	assert.Equal(t, http.StatusNotFound, get(t, h, "/nope").Code)
}

func TestWeb_OptionsCascade(t *testing.T) {
	h := testServer(t).routes()

	var opts dashboard.Options
	rec := get(t, h, "/api/options")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{"Arizona", "Ohio"}, opts.States)
	assert.Equal(t, []string{"Maricopa", "Pima"}, opts.Counties)
	assert.Equal(t, []string{"CVS Health", "Humana Inc."}, opts.Parents)
	assert.Equal(t, "Maricopa", opts.Selection.County)

	rec = get(t, h, "/api/options?state=Arizona&county=Pima")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{"UnitedHealth"}, opts.Parents)

	rec = get(t, h, "/api/options?state=Ohio")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, "Summit", opts.Selection.County)
}

func TestWeb_Dashboard(t *testing.T) {
	h := testServer(t).routes()

	var resp dashboardResponse
	rec := get(t, h, "/api/dashboard?state=Arizona&county=Maricopa")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Len(t, resp.Series, 3)
	assert.Equal(t, 1227.0, resp.Series[2].Total)
	assert.Equal(t, "1,227", resp.Text.Current)
	assert.Equal(t, "67 (5.8%)", resp.Text.MonthOverMonth)
	assert.Equal(t, dashboard.Missing, resp.Text.YearOverYear)
	assert.Equal(t, "Enrollment Trend — Arizona, Maricopa", resp.TrendTitle)
	assert.Equal(t, "2024-03", resp.LatestMonth)
	require.Len(t, resp.Top, 3)
	assert.Equal(t, "CVS Health", resp.Top[0].Name)
}

func TestWeb_DashboardParentFilter(t *testing.T) {
	h := testServer(t).routes()

	var resp dashboardResponse
	rec := get(t, h, "/api/dashboard?state=Arizona&county=Maricopa&parent=Humana+Inc.")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Humana Inc."}, resp.Selection.Parents)
	assert.Equal(t, []dashboard.Point{
		{Month: "2024-01", Total: 100},
		{Month: "2024-02", Total: 110},
		{Month: "2024-03", Total: 120},
	}, resp.Series)
	assert.Equal(t, []dashboard.OrgTotal{{Name: "Humana Inc.", Total: 120}}, resp.Top)
}

func TestWeb_CountyKPIs(t *testing.T) {
	h := testServer(t).routes()

	var rows []dataset.Row
	rec := get(t, h, "/api/county-kpis?state=Arizona&county=Pima")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "0.47", rows[0]["penetration"])

	rec = get(t, h, "/api/county-kpis?state=Ohio&county=Summit")
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestWeb_Charts(t *testing.T) {
	h := testServer(t).routes()

	rec := get(t, h, "/chart/trend.svg?state=Arizona&county=Maricopa")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.Contains(rec.Body.String(), "<svg"))

	rec = get(t, h, "/chart/top.png?state=Arizona&county=Maricopa")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusNotFound, get(t, h, "/chart/pie.svg").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/chart/trend.gif").Code)
}

func TestWeb_Metrics(t *testing.T) {
	s := testServer(t)
	s.metrics.SetRows("main", len(s.set.Main))
	h := s.routes()

	get(t, h, "/api/dashboard")
	get(t, h, "/chart/trend.svg")

	body := get(t, h, "/metrics").Body.String()
	assert.Contains(t, body, `mascc_http_requests_total{code="200",route="/api/dashboard"} 1`)
	assert.Contains(t, body, `mascc_render_duration_seconds_count{chart="trend"} 1`)
	assert.Contains(t, body, `mascc_rows_loaded{dataset="main"} 9`)
}
