package report

import "github.com/couchcryptid/rinex-station-meta/internal/domain"

// Column widths and gaps of the data lines. Changing a value here changes
// every line that uses it.
const (
	nameWidth   = domain.MarkerNameWidth
	numberWidth = domain.MarkerNumberWidth

	// ABB: name, number, gap, 4-ID, gap, 2-ID, gap, remark.
	abbNameGap = 11
	abbIDGap   = 5
	seqWidth   = 2

	// CLU: name, number, gap, cluster code.
	cluGap = 5

	// CRD: index, gap, name, suffix, gap, X Y Z, flag.
	indexWidth     = 3
	crdIndexGap    = 2
	crdSuffixWidth = 3
	crdSuffixGap   = 5
	coordWidth     = 14
	coordDecimals  = 5
	crdFlagWidth   = 3
	crdFlag        = "I"

	// PLD / VEL: index, name, number, VX VY VZ, flag, plate.
	velocityWidth    = 13
	velocityDecimals = 5
	velFlagWidth     = 4
	velFlag          = "I"
	plateColumn      = 75 // 0-based offset of the plate label

	// STA TYPE 001 / 002.
	staIDWidth      = nameWidth + 1 + numberWidth
	staFlagGap      = 8
	staFlag         = "001"
	staGap          = 2
	staOldNameWidth = 20
	staRemarkWidth  = 24
	staTypeWidth    = 22
	staSerialWidth  = 22
	staRecNumWidth  = 8
	staAntNumWidth  = 6
	staOffsetWidth  = 8
	staDescWidth    = 24
)
