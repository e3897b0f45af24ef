// Package report renders station records and observation periods into the
// fixed-column files read by Bernese-style GNSS processing: abbreviations
// (ABB), clusters (CLU), coordinates (CRD), plate assignment (PLD), station
// information (STA) and velocities (VEL).
//
// Consumers parse these files by column, so every layout is byte exact.
// Column widths live in layout.go, static blocks in templates.go.
package report

import (
	"fmt"
	"strings"
)

// Kind selects an output format.
type Kind int

const (
	ABB Kind = iota
	CLU
	CRD
	PLD
	STA
	VEL
)

// Kinds lists every format in the order they are written.
var Kinds = []Kind{ABB, CLU, CRD, PLD, STA, VEL}

var kindNames = [...]string{"ABB", "CLU", "CRD", "PLD", "STA", "VEL"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Extension is the file extension of the format, without the dot.
func (k Kind) Extension() string { return k.String() }

// ParseKind maps a format name such as "crd" to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown report kind %q", s)
}
