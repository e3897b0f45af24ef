package report

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/rinex-station-meta/internal/domain"
)

// ClusterFromNumber makes CLU use the first character of the marker number
// as the cluster, or clusterUnknown when the number is blank.
const ClusterFromNumber = "number"

const clusterUnknown = "*"

// Formatter renders one data line per station or period. It never modifies
// its inputs.
type Formatter struct {
	// Plate is appended to PLD and VEL lines at plateColumn.
	Plate string
	// ClusterCode is the single-character cluster written to CLU lines, or
	// ClusterFromNumber to take it from each station's marker number.
	ClusterCode string
	// Rotation drives the VEL velocities.
	Rotation domain.PlateRotation
}

// NewFormatter returns a Formatter with the default cluster code and plate
// rotation.
func NewFormatter(plate string) Formatter {
	return Formatter{
		Plate:       plate,
		ClusterCode: "1",
		Rotation:    domain.DefaultPlateRotation,
	}
}

// ABB renders an abbreviation line for the station at the 0-based index.
func (f Formatter) ABB(index int, rec domain.StationRecord) (string, error) {
	seq, err := SequenceID(index)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeStation(&b, rec)
	b.WriteString(spaces(abbNameGap))
	b.WriteString(padRight(rec.Name(), nameWidth))
	b.WriteString(spaces(abbIDGap))
	b.WriteString(padRight(seq, seqWidth))
	b.WriteString(spaces(abbIDGap))
	b.WriteString("From ")
	b.WriteString(rec.SourceFilename)
	return b.String(), nil
}

// CLU renders a cluster line.
func (f Formatter) CLU(rec domain.StationRecord) string {
	var b strings.Builder
	writeStation(&b, rec)
	b.WriteString(spaces(cluGap))
	b.WriteString(padRight(truncateTo(f.Cluster(rec), 1), 1))
	return b.String()
}

// Cluster returns the cluster code CLU writes for rec.
func (f Formatter) Cluster(rec domain.StationRecord) string {
	switch f.ClusterCode {
	case "":
		return "1"
	case ClusterFromNumber:
		number := rec.Number()
		if number == "" {
			return clusterUnknown
		}
		return truncateTo(number, 1)
	}
	return f.ClusterCode
}

// CRD renders a coordinate line for the 1-based index.
func (f Formatter) CRD(index int, rec domain.StationRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%*d", indexWidth, index)
	b.WriteString(spaces(crdIndexGap))
	b.WriteString(padRight(rec.Name(), nameWidth))
	b.WriteByte(' ')
	fmt.Fprintf(&b, "%*d", crdSuffixWidth, NumberSuffix(rec.MarkerNumber))
	b.WriteString(spaces(crdSuffixGap))
	for _, v := range []float64{rec.Position.X, rec.Position.Y, rec.Position.Z} {
		b.WriteString(padLeft(strconv.FormatFloat(v, 'f', coordDecimals, 64), coordWidth))
		b.WriteByte(' ')
	}
	b.WriteString(padLeft(crdFlag, crdFlagWidth))
	return b.String()
}

// NumberSuffix returns the trailing digits of a marker number, at most
// crdSuffixWidth of them, as an integer. It is 0 when the number does not
// end in a digit. The cap keeps the CRD suffix column at a fixed width.
func NumberSuffix(number string) int {
	number = strings.TrimSpace(number)
	i := len(number)
	for i > 0 && number[i-1] >= '0' && number[i-1] <= '9' && len(number)-i < crdSuffixWidth {
		i--
	}
	if i == len(number) {
		return 0
	}
	n, _ := strconv.Atoi(number[i:])
	return n
}

// PLD renders a plate assignment line for the 1-based index. The velocity
// and flag columns stay blank.
func (f Formatter) PLD(index int, rec domain.StationRecord) string {
	var b strings.Builder
	writeIndexedStation(&b, index, rec)
	b.WriteString(spaces(3*velocityWidth + velFlagWidth))
	return f.withPlate(b.String())
}

// VEL renders a velocity line for the 1-based index, with the plate motion
// at the station's approximate position.
func (f Formatter) VEL(index int, rec domain.StationRecord) string {
	v := f.Rotation.Velocity(rec.Position)

	var b strings.Builder
	writeIndexedStation(&b, index, rec)
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if c == 0 {
			c = 0 // no "-0.00000"
		}
		b.WriteString(padLeft(strconv.FormatFloat(c, 'f', velocityDecimals, 64), velocityWidth))
	}
	b.WriteString(padLeft(velFlag, velFlagWidth))
	return f.withPlate(b.String())
}

// withPlate pads line to plateColumn and appends the plate label. Longer
// lines are cut so the label always starts at plateColumn.
func (f Formatter) withPlate(line string) string {
	return padRight(truncateTo(line, plateColumn), plateColumn) + f.Plate
}

// STARenaming renders a TYPE 001 row.
func (f Formatter) STARenaming(p domain.ObservationPeriod) string {
	var b strings.Builder
	writeSTAPrefix(&b, p)
	b.WriteString(padRight(p.Station.Name()+"*", staOldNameWidth))
	b.WriteString(spaces(staGap))
	b.WriteString(padRight("From "+p.RemarkFilename, staRemarkWidth))
	return b.String()
}

// STAInformation renders a TYPE 002 row.
func (f Formatter) STAInformation(p domain.ObservationPeriod) string {
	st := p.Station

	var b strings.Builder
	writeSTAPrefix(&b, p)
	b.WriteString(padRight(st.ReceiverType, staTypeWidth))
	b.WriteString(padRight(st.ReceiverSerial, staSerialWidth))
	b.WriteString(padRight(st.ReceiverSerial, staRecNumWidth))
	b.WriteString(padRight(st.AntennaType, staTypeWidth))
	b.WriteString(padRight(st.AntennaSerial, staSerialWidth))
	b.WriteString(padRight(st.AntennaSerial, staAntNumWidth))
	for _, off := range []string{st.DeltaNorth, st.DeltaEast, st.DeltaUp} {
		b.WriteString(spaces(staGap))
		b.WriteString(padLeft(off, staOffsetWidth))
	}
	b.WriteString(spaces(staGap))
	b.WriteString(padRight(st.Key().String(), staDescWidth))
	b.WriteString(padRight("From "+p.RemarkFilename, staRemarkWidth))
	return b.String()
}

// writeSTAPrefix writes the station, flag and period columns shared by
// TYPE 001 and TYPE 002, followed by a gap.
func writeSTAPrefix(b *strings.Builder, p domain.ObservationPeriod) {
	b.WriteString(padRight(staStationID(p.Station), staIDWidth))
	b.WriteString(spaces(staFlagGap))
	b.WriteString(staFlag)
	b.WriteString(spaces(staGap))
	b.WriteString(domain.FormatEpoch(p.From))
	b.WriteString(spaces(staGap))
	b.WriteString(domain.FormatEpoch(p.To))
	b.WriteString(spaces(staGap))
}

func staStationID(rec domain.StationRecord) string {
	return padRight(rec.Name(), nameWidth) + " " + rec.Key().Number
}

// writeStation writes the 4-character name and 9-character number.
func writeStation(b *strings.Builder, rec domain.StationRecord) {
	key := rec.Key()
	b.WriteString(padRight(key.Name, nameWidth))
	b.WriteByte(' ')
	b.WriteString(padRight(key.Number, numberWidth))
}

func writeIndexedStation(b *strings.Builder, index int, rec domain.StationRecord) {
	fmt.Fprintf(b, "%*d ", indexWidth, index)
	writeStation(b, rec)
}

func spaces(n int) string { return strings.Repeat(" ", n) }

// Widths count runes, so a multi-byte name is padded by characters and never
// cut mid-character.

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + spaces(width-n)
}

func padLeft(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return spaces(width-n) + s
}

func truncateTo(s string, n int) string {
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
