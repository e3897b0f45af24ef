package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/rinex-station-meta/internal/domain"
)

// ErrMalformed reports a file or line whose layout does not match what the
// Writer produces.
var ErrMalformed = errors.New("malformed report")

// Offsets shared by the line parsers, derived from the layout widths.
const (
	stationWidth    = nameWidth + 1 + numberWidth
	abbSeqOffset    = stationWidth + abbNameGap + nameWidth + abbIDGap
	cluCodeOffset   = stationWidth + cluGap
	crdNameOffset   = indexWidth + crdIndexGap
	crdCoordOffset  = crdNameOffset + nameWidth + 1 + crdSuffixWidth + crdSuffixGap
	indexedStation  = indexWidth + 1
	velocityOffset  = indexedStation + stationWidth
	minPlateLineLen = plateColumn
)

// ReadLines checks that r holds a report of kind and returns its data lines
// without the static blocks. For STA the TYPE 001 rows come first, followed
// by the TYPE 002 rows.
func ReadLines(r io.Reader, kind Kind) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s report: %w", kind, err)
	}
	s := string(data)

	if kind != STA {
		h := header(kind)
		if h == "" {
			return nil, fmt.Errorf("unknown report kind %s", kind)
		}
		body, ok := strings.CutPrefix(s, h)
		if !ok {
			return nil, fmt.Errorf("%w: %s header", ErrMalformed, kind)
		}
		return splitLines(body), nil
	}

	body, ok := strings.CutPrefix(s, staHeader)
	if !ok {
		return nil, fmt.Errorf("%w: STA header", ErrMalformed)
	}
	body, ok = strings.CutSuffix(body, staTrailer)
	if !ok {
		return nil, fmt.Errorf("%w: STA trailer", ErrMalformed)
	}
	renaming, information, ok := strings.Cut(body, staType002Header)
	if !ok {
		return nil, fmt.Errorf("%w: STA TYPE 002 section", ErrMalformed)
	}
	return append(splitLines(renaming), splitLines(information)...), nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// ParsedLine holds the columns recovered from one data line. Columns that
// the line's kind does not carry stay zero.
type ParsedLine struct {
	// Key is the station. CRD lines carry only the name, so Number is blank
	// and a CRD line round-trips the name and coordinates but not the full
	// marker number.
	Key domain.StationKey
	// Index is the 1-based line number of CRD, PLD and VEL lines.
	Index int
	// Sequence is the 2-character ABB id.
	Sequence string
	// Cluster is the CLU cluster code.
	Cluster string
	// Suffix is the CRD marker number suffix: at most the last three digits,
	// see NumberSuffix.
	Suffix int
	// Position is the CRD coordinate triple.
	Position domain.Coord
	// Velocity is the VEL velocity triple.
	Velocity domain.Coord
	// Plate is the PLD and VEL plate label.
	Plate string
}

// ParseLine reads the columns of a data line produced for kind.
func ParseLine(kind Kind, line string) (ParsedLine, error) {
	var p ParsedLine
	var err error

	switch kind {
	case ABB:
		if err = minLen(kind, line, abbSeqOffset+seqWidth); err != nil {
			return p, err
		}
		p.Key = stationAt(line, 0)
		p.Sequence = line[abbSeqOffset : abbSeqOffset+seqWidth]

	case CLU:
		if err = minLen(kind, line, cluCodeOffset+1); err != nil {
			return p, err
		}
		p.Key = stationAt(line, 0)
		p.Cluster = line[cluCodeOffset : cluCodeOffset+1]

	case CRD:
		if err = minLen(kind, line, crdCoordOffset+3*coordWidth+2); err != nil {
			return p, err
		}
		if p.Index, err = intField(kind, line[:indexWidth]); err != nil {
			return p, err
		}
		p.Key = domain.NewStationKey(line[crdNameOffset:crdNameOffset+nameWidth], "")
		suffixAt := crdNameOffset + nameWidth + 1
		if p.Suffix, err = intField(kind, line[suffixAt:suffixAt+crdSuffixWidth]); err != nil {
			return p, err
		}
		p.Position, err = coordAt(kind, line, crdCoordOffset, coordWidth, 1)

	case PLD, VEL:
		if err = minLen(kind, line, minPlateLineLen); err != nil {
			return p, err
		}
		if p.Index, err = intField(kind, line[:indexWidth]); err != nil {
			return p, err
		}
		p.Key = stationAt(line, indexedStation)
		p.Plate = line[plateColumn:]
		if kind == VEL {
			p.Velocity, err = coordAt(kind, line, velocityOffset, velocityWidth, 0)
		}

	case STA:
		if err = minLen(kind, line, stationWidth); err != nil {
			return p, err
		}
		p.Key = stationAt(line, 0)

	default:
		return p, fmt.Errorf("unknown report kind %s", kind)
	}
	return p, err
}

func minLen(kind Kind, line string, n int) error {
	if len(line) < n {
		return fmt.Errorf("%w: %s line shorter than %d columns: %q", ErrMalformed, kind, n, line)
	}
	return nil
}

func stationAt(line string, offset int) domain.StationKey {
	return domain.NewStationKey(line[offset:offset+nameWidth], line[offset+nameWidth+1:offset+stationWidth])
}

func intField(kind Kind, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s integer column %q", ErrMalformed, kind, s)
	}
	return n, nil
}

// coordAt parses three right-aligned numbers of the given width starting at
// offset, separated by gap spaces.
func coordAt(kind Kind, line string, offset, width, gap int) (domain.Coord, error) {
	var v [3]float64
	for i := range v {
		from := offset + i*(width+gap)
		f, err := strconv.ParseFloat(strings.TrimSpace(line[from:from+width]), 64)
		if err != nil {
			return domain.Coord{}, fmt.Errorf("%w: %s numeric column %q", ErrMalformed, kind, line[from:from+width])
		}
		v[i] = f
	}
	return domain.Coord{X: v[0], Y: v[1], Z: v[2]}, nil
}
