package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/rinex-station-meta/internal/pipeline"
)

// RunTracker reports on the conversion runs of the process.
type RunTracker interface {
	sharedobs.ReadinessChecker
	LastSummary() (pipeline.Summary, bool)
}

// Server exposes health, readiness, run status, and metrics endpoints while
// the converter runs in re-run mode.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /status, and
// /metrics routes. Metrics are served from gatherer.
func NewServer(addr string, runs RunTracker, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(runs))
	mux.HandleFunc("GET /status", handleStatus(runs))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type reportStatus struct {
	Kind  string `json:"kind"`
	Path  string `json:"path"`
	Lines int    `json:"lines"`
	Error string `json:"error,omitempty"`
}

type runStatus struct {
	RunID      string         `json:"run_id"`
	Discovered int            `json:"files_discovered"`
	Parsed     int            `json:"files_parsed"`
	Failed     int            `json:"files_failed"`
	Stations   int            `json:"stations"`
	Published  int            `json:"published"`
	DurationMS int64          `json:"duration_ms"`
	Reports    []reportStatus `json:"reports"`
}

func handleStatus(runs RunTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		summary, ok := runs.LastSummary()
		if !ok {
			sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"status": "no completed run"})
			return
		}

		status := runStatus{
			RunID:      summary.RunID,
			Discovered: summary.Discovered,
			Parsed:     summary.Parsed,
			Failed:     summary.Failed,
			Stations:   summary.Stations,
			Published:  summary.Published,
			DurationMS: summary.Duration.Milliseconds(),
			Reports:    make([]reportStatus, 0, len(summary.Results)),
		}
		for _, res := range summary.Results {
			rs := reportStatus{Kind: res.Kind.String(), Path: res.Path, Lines: res.Lines}
			if res.Err != nil {
				rs.Error = res.Err.Error()
			}
			status.Reports = append(status.Reports, rs)
		}
		sharedobs.WriteJSON(w, http.StatusOK, status)
	}
}
