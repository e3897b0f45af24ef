package domain

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Header labels collected from observation file headers.
const (
	LabelMarkerName   = "MARKER NAME"
	LabelMarkerNumber = "MARKER NUMBER"
	LabelReceiver     = "REC # / TYPE / VERS"
	LabelAntenna      = "ANT # / TYPE"
	LabelPosition     = "APPROX POSITION XYZ"
	LabelAntennaDelta = "ANTENNA: DELTA H/E/N"
	LabelFirstObs     = "TIME OF FIRST OBS"
	LabelLastObs      = "TIME OF LAST OBS"

	endOfHeader = "END OF HEADER"

	// labelColumn is the 0-based offset of the label area (column 61).
	labelColumn = 60
)

// HeaderLabels is the fixed set of labels ScanHeader collects.
var HeaderLabels = []string{
	LabelMarkerName,
	LabelMarkerNumber,
	LabelReceiver,
	LabelAntenna,
	LabelPosition,
	LabelAntennaDelta,
	LabelFirstObs,
	LabelLastObs,
}

// MatchPolicy decides which line wins when a label occurs more than once.
type MatchPolicy int

const (
	// LastMatch keeps the last line carrying a label.
	LastMatch MatchPolicy = iota
	// FirstMatch keeps the first line carrying a label.
	FirstMatch
)

// ParseMatchPolicy maps "first" or "last" to a MatchPolicy.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last":
		return LastMatch, nil
	case "first":
		return FirstMatch, nil
	default:
		return LastMatch, fmt.Errorf("unknown header match policy %q (allowed: first, last)", s)
	}
}

func (p MatchPolicy) String() string {
	if p == FirstMatch {
		return "first"
	}
	return "last"
}

// HeaderFields maps a header label to the full header line that carried it.
type HeaderFields map[string]string

// ScanHeader reads header lines from r until the END OF HEADER line and
// collects the lines labelled with one of HeaderLabels. Reading stops early
// when ctx is done.
func ScanHeader(ctx context.Context, r io.Reader, policy MatchPolicy) (HeaderFields, error) {
	fields := make(HeaderFields, len(HeaderLabels))
	s := bufio.NewScanner(r)
	for s.Scan() {
		if err := ctx.Err(); err != nil {
			return fields, fmt.Errorf("scan header: %w", err)
		}
		line := strings.TrimRight(s.Text(), "\r")
		if strings.Contains(line, endOfHeader) {
			return fields, nil
		}
		label := headerLabel(line)
		if label == "" {
			continue
		}
		if _, seen := fields[label]; seen && policy == FirstMatch {
			continue
		}
		fields[label] = line
	}
	if err := s.Err(); err != nil {
		return fields, fmt.Errorf("scan header: %w", err)
	}
	return fields, nil
}

// headerLabel returns the collected label a line carries, or "".
func headerLabel(line string) string {
	area := line
	if len(line) > labelColumn {
		area = line[labelColumn:]
	}
	for _, label := range HeaderLabels {
		if strings.Contains(area, label) {
			return label
		}
	}
	return ""
}
