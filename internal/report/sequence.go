package report

import (
	"errors"
	"fmt"
)

// ErrSequenceExhausted is returned when there are more stations than 2-ID
// abbreviations.
var ErrSequenceExhausted = errors.New("2-character station id space exhausted")

const (
	numericIDs   = 99 // "01".."99"
	letterCycle  = 26
	lastSequence = 945 // reserved for "ZZ"

	firstChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// MaxStations is the number of stations that can be abbreviated.
const MaxStations = lastSequence + 1

// SequenceID returns the 2-character abbreviation for the 0-based station
// index. Indexes 0-98 map to "01".."99"; 99-944 map to a digit or letter
// followed by a letter ("0A".."0Z", "1A", ...); 945 maps to "ZZ".
func SequenceID(index int) (string, error) {
	switch {
	case index < 0 || index > lastSequence:
		return "", fmt.Errorf("station index %d: %w", index, ErrSequenceExhausted)
	case index < numericIDs:
		return fmt.Sprintf("%02d", index+1), nil
	case index == lastSequence:
		return "ZZ", nil
	}
	k := index - numericIDs
	return string([]byte{firstChars[k/letterCycle], byte('A' + k%letterCycle)}), nil
}
