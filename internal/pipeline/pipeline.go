package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/rinex-station-meta/internal/domain"
	"github.com/couchcryptid/rinex-station-meta/internal/observability"
	"github.com/couchcryptid/rinex-station-meta/internal/report"
)

// HeaderSource lists observation files and reads their headers.
type HeaderSource interface {
	Discover(ctx context.Context) ([]string, error)
	ReadHeader(ctx context.Context, path string) (domain.HeaderFields, error)
}

// ReportWriter writes every report format from one snapshot.
type ReportWriter interface {
	WriteAll(ctx context.Context, snap report.Snapshot) []report.Result
}

// Publisher ships the records and periods of a run to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, runID string, snap report.Snapshot) (int, error)
}

// Options tunes a Pipeline. Zero values select the defaults.
type Options struct {
	// Workers bounds concurrent header reads. Defaults to 4.
	Workers int
	// Aliases remaps marker numbers by station name.
	Aliases domain.Aliases
	// Publisher, when set, receives every snapshot after the reports are written.
	Publisher Publisher
	// RerunInterval > 0 makes Run repeat the conversion until cancelled.
	RerunInterval time.Duration
	// MetricsTextfile, when set, receives a metrics snapshot after every run.
	MetricsTextfile string
	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

// Summary describes one completed run.
type Summary struct {
	RunID      string
	Discovered int
	Parsed     int
	Failed     int
	Stations   int
	Results    []report.Result
	Published  int
	PublishErr error
	Duration   time.Duration
}

// Err joins the errors of every report that could not be written.
func (s Summary) Err() error {
	var errs []error
	for _, r := range s.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// Pipeline orchestrates discover, parse, aggregate and write.
type Pipeline struct {
	source  HeaderSource
	writer  ReportWriter
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options
	clock   clockwork.Clock
	ready   atomic.Bool
	last    atomic.Pointer[Summary]
}

// New creates a Pipeline with the given stages and observability.
func New(src HeaderSource, w ReportWriter, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		source:  src,
		writer:  w,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
		clock:   clock,
	}
}

// CheckReadiness returns nil once a run has completed, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// LastSummary returns the summary of the most recent completed run.
func (p *Pipeline) LastSummary() (Summary, bool) {
	s := p.last.Load()
	if s == nil {
		return Summary{}, false
	}
	return *s, true
}

// Run performs one conversion, then repeats it every RerunInterval until ctx
// is cancelled. It returns the summary of the last completed run. A failed
// rerun is logged and the loop continues.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary, err := p.RunOnce(ctx)
	if err != nil || p.opts.RerunInterval <= 0 {
		return summary, err
	}

	ticker := p.clock.NewTicker(p.opts.RerunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return summary, nil
		case <-ticker.Chan():
		}

		next, err := p.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return summary, nil
			}
			p.logger.Error("run failed", "error", err)
			continue
		}
		summary = next
	}
}

// RunOnce converts the current input tree into reports. It fails only when
// the tree cannot be listed or ctx is cancelled; per-file and per-report
// failures are recorded in the Summary.
func (p *Pipeline) RunOnce(ctx context.Context) (Summary, error) {
	start := p.clock.Now()
	summary := Summary{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", summary.RunID)

	p.metrics.RunInProgress.Set(1)
	defer p.metrics.RunInProgress.Set(0)

	paths, err := p.source.Discover(ctx)
	if err != nil {
		return summary, err
	}
	summary.Discovered = len(paths)
	p.metrics.FilesDiscovered.Add(float64(len(paths)))
	logger.Info("run started", "files", len(paths), "workers", p.opts.Workers)

	records, err := p.parse(ctx, logger, paths)
	if err != nil {
		return summary, err
	}
	summary.Parsed = len(records)
	summary.Failed = len(paths) - len(records)

	snap := Aggregate(records)
	summary.Stations = len(snap.Stations)
	p.metrics.Stations.Set(float64(len(snap.Stations)))
	p.metrics.Periods.WithLabelValues("combined").Set(float64(len(snap.Combined)))
	p.metrics.Periods.WithLabelValues("equipment").Set(float64(len(snap.Equipment)))

	summary.Results = p.writer.WriteAll(ctx, snap)
	for _, r := range summary.Results {
		if r.Err != nil {
			p.metrics.ReportsFailed.WithLabelValues(r.Kind.String()).Inc()
		} else {
			p.metrics.ReportsWritten.WithLabelValues(r.Kind.String()).Inc()
		}
	}

	if p.opts.Publisher != nil {
		summary.Published, summary.PublishErr = p.opts.Publisher.Publish(ctx, summary.RunID, snap)
		p.metrics.RecordsPublished.Add(float64(summary.Published))
		if summary.PublishErr != nil {
			logger.Error("publish failed", "error", summary.PublishErr, "published", summary.Published)
		}
	}

	summary.Duration = p.clock.Since(start)
	p.metrics.RunDuration.Observe(summary.Duration.Seconds())
	if summary.Err() == nil {
		p.metrics.LastSuccessfulRun.Set(float64(p.clock.Now().Unix()))
	}
	p.exportMetrics(logger)
	p.last.Store(&summary)
	p.ready.Store(true)

	logger.Info("run finished",
		"parsed", summary.Parsed,
		"failed", summary.Failed,
		"stations", summary.Stations,
		"duration", summary.Duration,
	)
	return summary, nil
}

// parse reads every header on a bounded worker pool. Unreadable files are
// logged and dropped; the surviving records keep the order of paths.
func (p *Pipeline) parse(ctx context.Context, logger *slog.Logger, paths []string) ([]domain.StationRecord, error) {
	parsed := make([]*domain.StationRecord, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			fields, err := p.source.ReadHeader(gctx, path)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("skipping unreadable file", "path", path, "error", err)
				p.metrics.FilesFailed.Inc()
				return nil
			}

			name := filepath.Base(path)
			if _, ok := domain.FileDate(name); !ok {
				logger.Warn("filename carries no valid date, using fallback",
					"file", name, "fallback", domain.FallbackDate.Format(time.DateOnly))
				p.metrics.FallbackDates.Inc()
			}

			rec := domain.BuildStationRecord(fields, name, p.opts.Aliases)
			if key := rec.Key(); !key.IsASCII() {
				logger.Warn("station key is not ASCII, report columns count characters not bytes",
					"file", name, "station", key.String())
			}
			parsed[i] = &rec
			p.metrics.FilesParsed.Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parse headers: %w", err)
	}

	records := make([]domain.StationRecord, 0, len(parsed))
	for _, rec := range parsed {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// Aggregate groups the records of one run into the snapshot every report
// format is rendered from.
func Aggregate(records []domain.StationRecord) report.Snapshot {
	reg := domain.NewRegistry(records)
	return report.Snapshot{
		Stations:  reg.Unique(),
		Combined:  domain.CombinedPeriods(reg),
		Equipment: domain.EquipmentPeriods(reg),
	}
}

func (p *Pipeline) exportMetrics(logger *slog.Logger) {
	if p.opts.MetricsTextfile == "" {
		return
	}
	if err := p.metrics.WriteTextfile(p.opts.MetricsTextfile); err != nil {
		logger.Warn("metrics textfile not written", "path", p.opts.MetricsTextfile, "error", err)
	}
}
