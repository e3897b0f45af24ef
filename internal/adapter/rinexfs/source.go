// Package rinexfs finds observation files on disk and reads their headers.
package rinexfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/rinex-station-meta/internal/domain"
)

// Source reads observation file headers below a root directory.
type Source struct {
	root    string
	policy  domain.MatchPolicy
	timeout time.Duration
}

// NewSource creates a Source for the tree at root. Each header read is
// bounded by timeout; zero disables the limit.
func NewSource(root string, policy domain.MatchPolicy, timeout time.Duration) *Source {
	return &Source{root: root, policy: policy, timeout: timeout}
}

// Root returns the directory the Source walks.
func (s *Source) Root() string { return s.root }

// Discover walks the tree and returns the paths of observation files, those
// whose name ends in "o" or "O", in lexical order. A symlink counts when it
// resolves to a regular file; symlinked directories are not descended.
func (s *Source) Discover(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if IsObservationFile(d.Name()) && isRegularFile(path, d) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", s.root, err)
	}
	slices.Sort(paths)
	return paths, nil
}

func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsObservationFile reports whether name follows the observation file
// naming convention closely enough to be read.
func IsObservationFile(name string) bool {
	return strings.HasSuffix(name, "o") || strings.HasSuffix(name, "O")
}

// ReadHeader scans the header of the file at path. The returned error wraps
// context.DeadlineExceeded when the read outlives the per-file timeout.
func (s *Source) ReadHeader(ctx context.Context, path string) (domain.HeaderFields, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	type result struct {
		fields domain.HeaderFields
		err    error
	}
	done := make(chan result, 1)
	go func() {
		fields, err := domain.ScanHeader(ctx, f, s.policy)
		done <- result{fields, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("read header %s: %w", path, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("read header %s: %w", path, r.err)
		}
		return r.fields, nil
	}
}
