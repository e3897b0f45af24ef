// Command rnxmeta walks a tree of RINEX observation files and writes the
// station metadata files ABB, CLU, CRD, PLD, STA, and VEL.
//
// Usage:
//
//	go run ./cmd/rnxmeta -input data/rinex -output out -base 2025 -plate EURA
//
// Settings default to the environment (see internal/config); flags override
// them. A missing base filename or plate label is prompted for on stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	httpadapter "github.com/couchcryptid/rinex-station-meta/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/rinex-station-meta/internal/adapter/kafka"
	"github.com/couchcryptid/rinex-station-meta/internal/adapter/rinexfs"
	"github.com/couchcryptid/rinex-station-meta/internal/config"
	"github.com/couchcryptid/rinex-station-meta/internal/domain"
	"github.com/couchcryptid/rinex-station-meta/internal/observability"
	"github.com/couchcryptid/rinex-station-meta/internal/pipeline"
	"github.com/couchcryptid/rinex-station-meta/internal/report"
)

// newMetrics registers with the default Prometheus registry; tests swap it
// for a private one.
var newMetrics = observability.NewMetrics

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code: 0 when every
// report was written, 1 when any report failed, 2 on usage or setup errors.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}

	if err := applyFlags(cfg, args, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	in := bufio.NewReader(stdin)
	if cfg.OutputBasename == "" {
		cfg.OutputBasename = prompt(in, stdout, "Base filename for the output files: ")
	}
	if cfg.PlateLabel == "" {
		cfg.PlateLabel = prompt(in, stdout, "Plate label (e.g. EURA): ")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}

	logger := observability.NewLogger(cfg, stderr)
	metrics := newMetrics()

	aliases, err := config.LoadAliases(cfg.AliasFile)
	if err != nil {
		logger.Error("failed to load aliases", "error", err)
		return 2
	}

	source := rinexfs.NewSource(cfg.InputDir, cfg.MatchPolicy, cfg.HeaderReadTimeout)
	formatter := report.Formatter{
		Plate:       cfg.PlateLabel,
		ClusterCode: cfg.ClusterCode,
		Rotation:    cfg.PlateRotation,
	}
	writer := report.NewWriter(cfg.OutputDir, cfg.OutputBasename, formatter, logger)

	opts := pipeline.Options{
		Workers:         cfg.ParseWorkers,
		Aliases:         aliases,
		RerunInterval:   cfg.RerunInterval,
		MetricsTextfile: cfg.MetricsTextfile,
	}
	if cfg.KafkaEnabled() {
		publisher := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		opts.Publisher = publisher
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(source, writer, logger, metrics, opts)

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, metrics.Gatherer(), logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	summary, err := p.Run(ctx)
	if err != nil {
		logger.Error("conversion failed", "error", err)
		return 2
	}

	printSummary(stdout, summary)
	if summary.Err() != nil {
		return 1
	}
	return 0
}

// applyFlags overrides cfg with command-line flags.
func applyFlags(cfg *config.Config, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("rnxmeta", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.InputDir, "input", cfg.InputDir, "directory tree holding the observation files")
	fs.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "directory the reports are written to")
	fs.StringVar(&cfg.OutputBasename, "base", cfg.OutputBasename, "base filename of the reports (<base>.ABB, ...)")
	fs.StringVar(&cfg.PlateLabel, "plate", cfg.PlateLabel, "plate label written to PLD and VEL")
	fs.StringVar(&cfg.AliasFile, "aliases", cfg.AliasFile, "YAML station alias file")
	fs.IntVar(&cfg.ParseWorkers, "workers", cfg.ParseWorkers, "concurrent header reads")
	match := fs.String("match", cfg.MatchPolicy.String(), "header label match policy: first or last")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	policy, err := domain.ParseMatchPolicy(*match)
	if err != nil {
		return err
	}
	cfg.MatchPolicy = policy

	if cfg.ParseWorkers < 1 || cfg.ParseWorkers > 64 {
		return fmt.Errorf("workers must be between 1 and 64, got %d", cfg.ParseWorkers)
	}
	cfg.OutputBasename = strings.TrimSpace(cfg.OutputBasename)
	cfg.PlateLabel = strings.TrimSpace(cfg.PlateLabel)
	return nil
}

// prompt asks for one line on stdin. It returns "" at end of input.
func prompt(in *bufio.Reader, out io.Writer, question string) string {
	fmt.Fprint(out, question)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func printSummary(out io.Writer, s pipeline.Summary) {
	fmt.Fprintf(out, "%d files, %d parsed, %d skipped, %d stations\n", s.Discovered, s.Parsed, s.Failed, s.Stations)
	for _, r := range s.Results {
		if r.Err != nil {
			fmt.Fprintf(out, "  %s  FAILED  %v\n", r.Kind, r.Err)
			continue
		}
		fmt.Fprintf(out, "  %s  %s (%d lines)\n", r.Kind, r.Path, r.Lines)
	}
}
