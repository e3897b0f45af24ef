package domain

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Span is an inclusive 1-based column range of a header line.
type Span struct {
	From, To int
}

// Slice returns the columns of line covered by the span, clipped to the line
// length and trimmed. A multi-byte character cut by a span edge is dropped.
func (s Span) Slice(line string) string {
	from := s.From - 1
	if from < 0 {
		from = 0
	}
	if from >= len(line) {
		return ""
	}
	to := s.To
	if to > len(line) {
		to = len(line)
	}
	return strings.TrimSpace(strings.ToValidUTF8(line[from:to], ""))
}

// Columns of the header values, 1-based and inclusive.
var (
	ColMarkerName   = Span{1, 60}
	ColMarkerNumber = Span{1, MarkerNumberWidth}

	ColEquipSerial = Span{1, 6}
	ColEquipType   = Span{21, 40}

	ColDeltaUp    = Span{9, 15}
	ColDeltaEast  = Span{23, 29}
	ColDeltaNorth = Span{37, 43}

	ColPositionX = Span{3, 15}
	ColPositionY = Span{17, 29}
	ColPositionZ = Span{31, 43}

	// Epoch fields are RINEX I6 / F13.7 fields; values are right aligned so
	// trimming yields the number.
	ColEpochYear   = Span{1, 6}
	ColEpochMonth  = Span{7, 12}
	ColEpochDay    = Span{13, 18}
	ColEpochHour   = Span{19, 24}
	ColEpochMinute = Span{25, 30}
	ColEpochSecond = Span{31, 43}
)

// BuildStationRecord decodes collected header lines into a StationRecord.
// Missing or malformed values resolve to sentinels; it never fails.
func BuildStationRecord(fields HeaderFields, filename string, aliases Aliases) StationRecord {
	name := ColMarkerName.Slice(fields[LabelMarkerName])
	if name == "" {
		name = nameFromFilename(filename)
	}

	number := ColMarkerNumber.Slice(fields[LabelMarkerNumber])
	if alias, ok := aliases.Lookup(name); ok {
		number = alias
	}

	rec := fields[LabelReceiver]
	ant := fields[LabelAntenna]
	delta := fields[LabelAntennaDelta]

	return StationRecord{
		MarkerName:     name,
		MarkerNumber:   CanonicalMarkerNumber(number),
		ReceiverSerial: ColEquipSerial.Slice(rec),
		ReceiverType:   ColEquipType.Slice(rec),
		AntennaSerial:  ColEquipSerial.Slice(ant),
		AntennaType:    ColEquipType.Slice(ant),
		DeltaUp:        ColDeltaUp.Slice(delta),
		DeltaEast:      ColDeltaEast.Slice(delta),
		DeltaNorth:     ColDeltaNorth.Slice(delta),
		Position:       parsePosition(fields[LabelPosition]),
		SourceFilename: filename,
		FirstObs:       parseEpoch(fields[LabelFirstObs]),
		LastObs:        parseEpoch(fields[LabelLastObs]),
	}
}

// nameFromFilename takes the station name from a short RINEX filename.
func nameFromFilename(filename string) string {
	base := filepath.Base(filename)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return strings.ToUpper(truncate(base, MarkerNameWidth))
}

// parsePosition decodes APPROX POSITION XYZ. If any component is missing or
// malformed the whole position is zero.
func parsePosition(line string) Coord {
	x, okX := parseFloat(ColPositionX.Slice(line))
	y, okY := parseFloat(ColPositionY.Slice(line))
	z, okZ := parseFloat(ColPositionZ.Slice(line))
	if !okX || !okY || !okZ {
		return Coord{}
	}
	return Coord{X: x, Y: y, Z: z}
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseEpoch decodes TIME OF FIRST/LAST OBS. Fractional seconds are dropped.
// Returns the zero time when any component is missing or out of range.
func parseEpoch(line string) time.Time {
	if line == "" {
		return time.Time{}
	}

	var parts [5]int
	for i, col := range []Span{ColEpochYear, ColEpochMonth, ColEpochDay, ColEpochHour, ColEpochMinute} {
		v, err := strconv.Atoi(col.Slice(line))
		if err != nil {
			return time.Time{}
		}
		parts[i] = v
	}
	sec, ok := parseFloat(ColEpochSecond.Slice(line))
	if !ok || sec < 0 || sec >= 60 {
		return time.Time{}
	}

	year, month, day, hour, minute := parts[0], parts[1], parts[2], parts[3], parts[4]
	if year < 100 {
		year = expandYear(year)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, int(sec), 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}
	}
	return t
}

// timeOfDay returns the offset of t from its midnight.
func timeOfDay(t time.Time) time.Duration {
	if t.IsZero() {
		return 0
	}
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}
