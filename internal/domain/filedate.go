package domain

import (
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// FallbackDate substitutes for filename dates that cannot be derived. It is
// the GPS time origin.
var FallbackDate = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

// yearPivot splits two-digit years: below it they are 20xx, otherwise 19xx.
const yearPivot = 80

// fileDateRe matches "<prefix><DOY><optional char>.<YY|YYYY>[Oo]" at the end of
// a filename, e.g. "CHUM0010.02O" -> DOY 001, year 02.
var fileDateRe = regexp.MustCompile(`(\d{3})[A-Za-z0-9]?\.(\d{4}|\d{2})[Oo]$`)

// FileDate derives the observation date encoded in a RINEX filename. When the
// name does not follow the convention or encodes an impossible day, it
// returns FallbackDate and false.
func FileDate(filename string) (time.Time, bool) {
	m := fileDateRe.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return FallbackDate, false
	}

	doy, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if len(m[2]) == 2 {
		year = expandYear(year)
	}

	date, ok := DayOfYearDate(year, doy)
	if !ok {
		return FallbackDate, false
	}
	return date, true
}

// DayOfYearDate converts a year and 1-based day of year to a UTC date.
func DayOfYearDate(year, doy int) (time.Time, bool) {
	if doy < 1 || doy > DaysInYear(year) {
		return time.Time{}, false
	}
	month, day := 1, doy
	for m := time.January; m <= time.December; m++ {
		n := daysInMonth(year, m)
		if day <= n {
			month = int(m)
			break
		}
		day -= n
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// IsLeapYear applies the Gregorian rule: divisible by 4 and either not
// divisible by 100 or divisible by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

var monthDays = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func daysInMonth(year int, m time.Month) int {
	if m == time.February && IsLeapYear(year) {
		return 29
	}
	return monthDays[m-1]
}

func expandYear(yy int) int {
	if yy < yearPivot {
		return 2000 + yy
	}
	return 1900 + yy
}
