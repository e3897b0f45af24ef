package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/rinex-station-meta/internal/adapter/http"
	"github.com/couchcryptid/rinex-station-meta/internal/observability"
	"github.com/couchcryptid/rinex-station-meta/internal/pipeline"
	"github.com/couchcryptid/rinex-station-meta/internal/report"
)

var _ httpadapter.RunTracker = (*pipeline.Pipeline)(nil)

type mockRuns struct {
	err         error
	summary     *pipeline.Summary
	hadDeadline bool
}

func (m *mockRuns) CheckReadiness(ctx context.Context) error {
	_, m.hadDeadline = ctx.Deadline()
	return m.err
}

func (m *mockRuns) LastSummary() (pipeline.Summary, bool) {
	if m.summary == nil {
		return pipeline.Summary{}, false
	}
	return *m.summary, true
}

func newTestServer(runs *mockRuns) (*httpadapter.Server, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", runs, metrics.Gatherer(), logger), metrics
}

func get(srv http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(&mockRuns{})
	rec := get(srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(&mockRuns{})
	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(&mockRuns{err: fmt.Errorf("no run yet")})
	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no run yet", body["error"])
}

func TestReadyzBoundsTheCheck(t *testing.T) {
	runs := &mockRuns{}
	srv, _ := newTestServer(runs)
	get(srv, "/readyz")

	assert.True(t, runs.hadDeadline)
}

func TestStatusReturns404BeforeFirstRun(t *testing.T) {
	srv, _ := newTestServer(&mockRuns{})
	rec := get(srv, "/status")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestStatusReportsLastRun(t *testing.T) {
	summary := &pipeline.Summary{
		RunID:      "run-1",
		Discovered: 3,
		Parsed:     2,
		Failed:     1,
		Stations:   2,
		Duration:   1500 * time.Millisecond,
		Results: []report.Result{
			{Kind: report.ABB, Path: "out/2025.ABB", Err: errors.New("disk full")},
			{Kind: report.CRD, Path: "out/2025.CRD", Lines: 2},
		},
	}
	srv, _ := newTestServer(&mockRuns{summary: summary})
	rec := get(srv, "/status")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		RunID      string `json:"run_id"`
		Parsed     int    `json:"files_parsed"`
		Failed     int    `json:"files_failed"`
		DurationMS int64  `json:"duration_ms"`
		Reports    []struct {
			Kind  string `json:"kind"`
			Lines int    `json:"lines"`
			Error string `json:"error"`
		} `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "run-1", body.RunID)
	assert.Equal(t, 2, body.Parsed)
	assert.Equal(t, 1, body.Failed)
	assert.Equal(t, int64(1500), body.DurationMS)
	require.Len(t, body.Reports, 2)
	assert.Equal(t, "ABB", body.Reports[0].Kind)
	assert.Equal(t, "disk full", body.Reports[0].Error)
	assert.Equal(t, 2, body.Reports[1].Lines)
	assert.Empty(t, body.Reports[1].Error)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, metrics := newTestServer(&mockRuns{})
	metrics.FilesParsed.Add(7)

	rec := get(srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rinex_meta_files_parsed_total 7")
}
