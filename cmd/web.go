package cmd

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/zalepa/mascc/chart"
	"github.com/zalepa/mascc/config"
	"github.com/zalepa/mascc/dashboard"
	"github.com/zalepa/mascc/dataset"
	"github.com/zalepa/mascc/metrics"
)

//go:embed web.html
var htmlContent embed.FS

// dashboardResponse is the JSON body of /api/dashboard.
type dashboardResponse struct {
	dashboard.Result
	Text       dashboard.KPIText `json:"kpiText"`
	TrendTitle string            `json:"trendTitle"`
	TopTitle   string            `json:"topTitle"`
}

// server answers dashboard requests from the datasets loaded at startup.
// The datasets are never modified after load, so handlers share them freely.
type server struct {
	set     *dataset.Set
	cfg     *config.Config
	opts    dashboard.AggregateOptions
	metrics *metrics.Metrics
}

// Web implements the "web" subcommand.
func Web(args []string) {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	common := addCommonFlags(fs)
	port := fs.String("port", "", "HTTP server port (default from config, else "+config.DefaultPort+")")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mascc web [--port 8080] [flags]\n\nStart the interactive enrollment dashboard.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := mustSetup(common)
	if *port != "" {
		cfg.Port = *port
	}
	opts := mustAggregateOptions(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	set := mustLoad(ctx, cfg)

	s := &server{set: set, cfg: cfg, opts: opts, metrics: metrics.New()}
	s.metrics.SetRows("main", len(set.Main))
	s.metrics.SetRows("kpi", len(set.KPI))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("serving on http://localhost%s\n", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern, route string, h http.HandlerFunc) {
		mux.Handle(pattern, s.metrics.Instrument(route, logRequests(h)))
	}
	handle("GET /{$}", "/", s.handleIndex)
	handle("GET /api/options", "/api/options", s.handleOptions)
	handle("GET /api/dashboard", "/api/dashboard", s.handleDashboard)
	handle("GET /api/county-kpis", "/api/county-kpis", s.handleCountyKPIs)
	handle("GET /chart/{file}", "/chart", s.handleChart)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

func logRequests(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		slog.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery, "elapsed", time.Since(start))
	}
}

// querySelection reads state, county and repeated parent parameters.
func querySelection(r *http.Request) dashboard.Selection {
	q := r.URL.Query()
	return dashboard.NewSelection(q.Get("state"), q.Get("county"), q["parent"]...)
}

func (s *server) options(r *http.Request) dashboard.Options {
	return dashboard.DeriveOptions(s.set.Main, querySelection(r), s.cfg.DefaultState)
}

func (s *server) aggregate(r *http.Request) dashboard.Result {
	return dashboard.Aggregate(s.set.Main, s.options(r).Selection, s.opts)
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, _ := htmlContent.ReadFile("web.html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.options(r))
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	res := s.aggregate(r)
	writeJSON(w, dashboardResponse{
		Result:     res,
		Text:       res.KPIs.Text(),
		TrendTitle: res.TrendTitle(),
		TopTitle:   res.TopTitle(),
	})
}

// handleCountyKPIs returns the KPI dataset rows of the selected county.
func (s *server) handleCountyKPIs(w http.ResponseWriter, r *http.Request) {
	sel := s.options(r).Selection
	rows := []dataset.Row{}
	for _, row := range s.set.KPI {
		if row[dataset.ColState] == sel.State && row[dataset.ColCounty] == sel.County {
			rows = append(rows, row)
		}
	}
	writeJSON(w, rows)
}

var chartContentTypes = map[string]string{
	"svg": "image/svg+xml",
	"png": "image/png",
}

// handleChart serves /chart/trend.svg, /chart/top.png and so on.
func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	name, format, _ := strings.Cut(r.PathValue("file"), ".")
	contentType, ok := chartContentTypes[format]
	if !ok || (name != "trend" && name != "top") {
		http.NotFound(w, r)
		return
	}

	start := time.Now()
	res := s.aggregate(r)
	build := chart.Trend
	if name == "top" {
		build = chart.Top
	}
	p, err := build(res)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := chart.Encode(&buf, p, format, chart.DefaultWidth, chart.DefaultHeight); err != nil {
		slog.Error("encode chart", "chart", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.metrics.ObserveRender(name, time.Since(start))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
