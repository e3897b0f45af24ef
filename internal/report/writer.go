package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/rinex-station-meta/internal/domain"
)

// Snapshot is the station data of one run shared by every format.
type Snapshot struct {
	// Stations holds one record per physical station in first-seen order.
	Stations []domain.StationRecord
	// Combined holds one period per station (STA TYPE 001).
	Combined []domain.ObservationPeriod
	// Equipment holds one period per receiver/antenna setup (STA TYPE 002).
	Equipment []domain.ObservationPeriod
}

// Result reports the outcome of writing one format.
type Result struct {
	Kind  Kind
	Path  string
	Lines int
	Err   error
}

// Writer writes report files named "<base>.<EXT>" into a directory.
type Writer struct {
	dir       string
	base      string
	formatter Formatter
	kinds     []Kind
	logger    *slog.Logger
}

// NewWriter creates a Writer for all formats.
func NewWriter(dir, base string, formatter Formatter, logger *slog.Logger) *Writer {
	return &Writer{
		dir:       dir,
		base:      base,
		formatter: formatter,
		kinds:     Kinds,
		logger:    logger,
	}
}

// Path returns the file path the Writer uses for kind.
func (w *Writer) Path(kind Kind) string {
	return filepath.Join(w.dir, w.base+"."+kind.Extension())
}

// WriteAll writes every format from snap. A failure is confined to its own
// format: the remaining formats are still written, and each Result carries
// its own error.
func (w *Writer) WriteAll(ctx context.Context, snap Snapshot) []Result {
	results := make([]Result, 0, len(w.kinds))
	for _, kind := range w.kinds {
		res := Result{Kind: kind, Path: w.Path(kind)}
		if err := ctx.Err(); err != nil {
			res.Err = err
		} else {
			res.Lines, res.Err = w.writeFile(res.Path, kind, snap)
		}

		if res.Err != nil {
			w.logger.Error("report not written", "kind", kind.String(), "path", res.Path, "error", res.Err)
		} else {
			w.logger.Info("report written", "kind", kind.String(), "path", res.Path, "lines", res.Lines)
		}
		results = append(results, res)
	}
	return results
}

// writeFile renders into a temporary file next to path and renames it into
// place, so a failed render never leaves a truncated report.
func (w *Writer) writeFile(path string, kind Kind, snap Snapshot) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create %s report directory: %w", kind, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create %s report: %w", kind, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	bw := bufio.NewWriter(tmp)
	lines, err := w.Render(bw, kind, snap)
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s report: %w", kind, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("rename %s report: %w", kind, err)
	}
	return lines, nil
}

// Render writes the complete content of one format to out and returns the
// number of data lines.
func (w *Writer) Render(out io.Writer, kind Kind, snap Snapshot) (int, error) {
	lines, err := w.lines(kind, snap)
	if err != nil {
		return 0, err
	}

	ew := &errWriter{w: out}
	switch kind {
	case STA:
		ew.write(staHeader)
		for _, l := range lines[:len(snap.Combined)] {
			ew.write(l + "\n")
		}
		ew.write(staType002Header)
		for _, l := range lines[len(snap.Combined):] {
			ew.write(l + "\n")
		}
		ew.write(staTrailer)
	default:
		ew.write(header(kind))
		for _, l := range lines {
			ew.write(l + "\n")
		}
	}
	return len(lines), ew.err
}

// lines renders the data lines of one format. For STA the TYPE 001 rows come
// first, followed by the TYPE 002 rows.
func (w *Writer) lines(kind Kind, snap Snapshot) ([]string, error) {
	f := w.formatter
	var out []string
	switch kind {
	case ABB:
		for i, rec := range snap.Stations {
			line, err := f.ABB(i, rec)
			if err != nil {
				return nil, err
			}
			out = append(out, line)
		}
	case CLU:
		for _, rec := range snap.Stations {
			out = append(out, f.CLU(rec))
		}
	case CRD:
		for i, rec := range snap.Stations {
			out = append(out, f.CRD(i+1, rec))
		}
	case PLD:
		for i, rec := range snap.Stations {
			out = append(out, f.PLD(i+1, rec))
		}
	case VEL:
		for i, rec := range snap.Stations {
			out = append(out, f.VEL(i+1, rec))
		}
	case STA:
		for _, p := range snap.Combined {
			out = append(out, f.STARenaming(p))
		}
		for _, p := range snap.Equipment {
			out = append(out, f.STAInformation(p))
		}
	default:
		return nil, fmt.Errorf("render: unknown report kind %s", kind)
	}
	return out, nil
}

func header(kind Kind) string {
	switch kind {
	case ABB:
		return abbHeader
	case CLU:
		return cluHeader
	case CRD:
		return crdHeader
	case PLD:
		return pldHeader
	case VEL:
		return velHeader
	default:
		return ""
	}
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}
