package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MarkerNumberWidth is the canonical width of a marker number (DOMES style,
// e.g. "13434M001").
const MarkerNumberWidth = 9

// MarkerNameWidth is the number of significant marker name characters.
const MarkerNameWidth = 4

// EpochSentinel is how a missing or unparsable epoch is rendered.
const EpochSentinel = "0000 00 00 00 00 00"

// Coord is an Earth-centred Cartesian position or vector in metres.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// IsZero reports whether all components are zero.
func (c Coord) IsZero() bool {
	return c.X == 0 && c.Y == 0 && c.Z == 0
}

// StationRecord holds the metadata decoded from one observation file header.
type StationRecord struct {
	MarkerName     string    `json:"marker_name"`
	MarkerNumber   string    `json:"marker_number"` // always MarkerNumberWidth characters
	ReceiverSerial string    `json:"receiver_serial"`
	ReceiverType   string    `json:"receiver_type"`
	AntennaSerial  string    `json:"antenna_serial"`
	AntennaType    string    `json:"antenna_type"`
	DeltaUp        string    `json:"delta_up"`
	DeltaEast      string    `json:"delta_east"`
	DeltaNorth     string    `json:"delta_north"`
	Position       Coord     `json:"position"`
	SourceFilename string    `json:"source_filename"`
	FirstObs       time.Time `json:"first_obs"`
	LastObs        time.Time `json:"last_obs"`
}

// Key returns the identity of the physical station the record belongs to.
func (r StationRecord) Key() StationKey {
	return NewStationKey(r.MarkerName, r.MarkerNumber)
}

// Name returns the significant marker name prefix.
func (r StationRecord) Name() string {
	return r.Key().Name
}

// Number returns the marker number without padding.
func (r StationRecord) Number() string {
	return strings.TrimSpace(r.MarkerNumber)
}

// StationKey identifies a physical station.
type StationKey struct {
	Name   string // at most MarkerNameWidth characters, trimmed
	Number string // exactly MarkerNumberWidth characters
}

// NewStationKey derives the key from a raw marker name and number.
func NewStationKey(name, number string) StationKey {
	return StationKey{
		Name:   truncate(strings.TrimSpace(name), MarkerNameWidth),
		Number: CanonicalMarkerNumber(number),
	}
}

// IsASCII reports whether the name and number are plain ASCII, so each
// character fills exactly one report column byte.
func (k StationKey) IsASCII() bool {
	for i := 0; i < len(k.Name); i++ {
		if k.Name[i] >= utf8.RuneSelf {
			return false
		}
	}
	for i := 0; i < len(k.Number); i++ {
		if k.Number[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// String renders the key as "NAME NUMBER" with the number unpadded.
func (k StationKey) String() string {
	return strings.TrimSpace(k.Name + " " + strings.TrimSpace(k.Number))
}

// Less orders keys by name, then number, comparing bytes.
func (k StationKey) Less(o StationKey) bool {
	if k.Name != o.Name {
		return k.Name < o.Name
	}
	return k.Number < o.Number
}

// CanonicalMarkerNumber trims the value and pads or truncates it to exactly
// MarkerNumberWidth characters.
func CanonicalMarkerNumber(s string) string {
	s = truncate(strings.TrimSpace(s), MarkerNumberWidth)
	if n := utf8.RuneCountInString(s); n < MarkerNumberWidth {
		s += strings.Repeat(" ", MarkerNumberWidth-n)
	}
	return s
}

// ObservationPeriod is the time span a station was observed, derived from
// one or more StationRecords.
type ObservationPeriod struct {
	Station        StationRecord `json:"station"`
	From           time.Time     `json:"from"`
	To             time.Time     `json:"to"`
	RemarkFilename string        `json:"remark_filename"`
}

// FormatEpoch renders t as "YYYY MM DD HH MM SS", or EpochSentinel for the
// zero time.
func FormatEpoch(t time.Time) string {
	if t.IsZero() {
		return EpochSentinel
	}
	return t.UTC().Format("2006 01 02 15 04 05")
}

// truncate keeps the first n runes of s, so a multi-byte character is never
// split.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
