package observability

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/couchcryptid/rinex-station-meta/internal/config"
)

// NewLogger builds the process logger: a coloured human-readable handler for
// LOG_FORMAT=text, structured JSON otherwise. Logs go to w, normally stderr,
// so they never mix with report output.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		})).With("app", "rnxmeta")
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.TimeOnly,
	}))
}
