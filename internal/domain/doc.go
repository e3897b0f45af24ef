// Package domain models station metadata extracted from RINEX 2.x observation
// file headers and the observation periods derived from them.
//
// # Header Conventions
//
// Each header line carries its value in columns 1-60 and a label in columns
// 61-80, e.g.
//
//	CHUM                                                        MARKER NAME
//	12345M001                                                   MARKER NUMBER
//	  1234567.8910  -234567.1230  5678901.4560                  APPROX POSITION XYZ
//	  2002     1     1     0     0    0.0000000     GPS         TIME OF FIRST OBS
//
// The header ends at the line labelled "END OF HEADER". Only the labels in
// [HeaderLabels] are collected; the rest of the header is ignored.
//
// # Filename Conventions
//
// Short RINEX names follow "ssssdddf.yyO": a 4-character station name, the
// 3-digit day of year, a session character, a 2-digit year and the file type.
// The filename date drives period aggregation, see [FileDate].
//
// Two-digit years pivot at 80: "02" is 2002, "97" is 1997.
//
// # Station Identity
//
// A physical station is identified by [StationKey]: the first four characters
// of the marker name and the 9-character canonical marker number. Several
// files may reference the same key; [Registry] groups them.
//
// # Sentinels
//
// Nothing in a header is fatal. Unparsable coordinates become 0.0, unparsable
// epochs become the zero time (rendered "0000 00 00 00 00 00") and unparsable
// filename dates become [FallbackDate].
package domain
