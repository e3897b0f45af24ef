package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/rinex-station-meta/internal/domain"
	"github.com/couchcryptid/rinex-station-meta/internal/report"
)

// Config holds all converter settings, populated from environment variables.
type Config struct {
	InputDir       string
	OutputDir      string
	OutputBasename string
	PlateLabel     string
	PlateRotation  domain.PlateRotation
	ClusterCode    string
	MatchPolicy    domain.MatchPolicy
	AliasFile      string

	ParseWorkers      int
	HeaderReadTimeout time.Duration

	LogLevel  slog.Level
	LogFormat string

	MetricsTextfile string
	HTTPAddr        string
	RerunInterval   time.Duration
	ShutdownTimeout time.Duration

	// Kafka sink, disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string
}

// KafkaEnabled reports whether records are published to Kafka.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	rotation := domain.DefaultPlateRotation
	if s := os.Getenv("PLATE_POLE_MAS"); s != "" {
		r, err := domain.ParsePlateRotationMas(s)
		if err != nil {
			return nil, fmt.Errorf("invalid PLATE_POLE_MAS: %w", err)
		}
		rotation = r
	}

	policy, err := domain.ParseMatchPolicy(os.Getenv("HEADER_MATCH_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid HEADER_MATCH_POLICY: %w", err)
	}

	workers, err := parseInt("PARSE_WORKERS", 4, 1, 64)
	if err != nil {
		return nil, err
	}

	readTimeout, err := parsePositiveDuration("HEADER_READ_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	rerun, err := time.ParseDuration(envOrDefault("RERUN_INTERVAL", "0s"))
	if err != nil || rerun < 0 {
		return nil, errors.New("invalid RERUN_INTERVAL")
	}

	level, err := parseLogLevel(envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputDir:       envOrDefault("INPUT_DIR", "input"),
		OutputDir:      envOrDefault("OUTPUT_DIR", "."),
		OutputBasename: strings.TrimSpace(os.Getenv("OUTPUT_BASENAME")),
		PlateLabel:     strings.TrimSpace(os.Getenv("PLATE_LABEL")),
		PlateRotation:  rotation,
		ClusterCode:    envOrDefault("CLUSTER_CODE", "1"),
		MatchPolicy:    policy,
		AliasFile:      strings.TrimSpace(os.Getenv("ALIAS_FILE")),

		ParseWorkers:      workers,
		HeaderReadTimeout: readTimeout,

		LogLevel:  level,
		LogFormat: strings.ToLower(envOrDefault("LOG_FORMAT", "text")),

		MetricsTextfile: strings.TrimSpace(os.Getenv("METRICS_TEXTFILE")),
		HTTPAddr:        strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		RerunInterval:   rerun,
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers: sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "rinex-station-records"),
	}

	if cfg.ClusterCode != report.ClusterFromNumber && len(cfg.ClusterCode) != 1 {
		return nil, fmt.Errorf("CLUSTER_CODE must be a single character or %q", report.ClusterFromNumber)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (allowed: text, json)", cfg.LogFormat)
	}
	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// Validate checks the settings the CLI may fill in after Load.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input directory is required")
	}
	if c.OutputBasename == "" {
		return errors.New("output base filename is required")
	}
	if strings.ContainsAny(c.OutputBasename, `/\`) {
		return fmt.Errorf("output base filename %q must not contain a path separator", c.OutputBasename)
	}
	return nil
}

// envOrDefault trims what sharedcfg.EnvOrDefault returns, so a value of only
// spaces selects the default.
func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(sharedcfg.EnvOrDefault(key, def)); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s %q (allowed: %d-%d)", key, s, lo, hi)
	}
	return n, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
