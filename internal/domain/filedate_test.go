package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFileDate(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     time.Time
		ok       bool
	}{
		{"first day", "CHUM0010.02O", date(2002, time.January, 1), true},
		{"fifth day", "CHUM0050.02O", date(2002, time.January, 5), true},
		{"lowercase suffix", "chum0050.02o", date(2002, time.January, 5), true},
		{"with directory", "data/2002/CHUM0050.02O", date(2002, time.January, 5), true},
		{"session letter", "CHUM001a.02O", date(2002, time.January, 1), true},
		{"no session char", "CHUM001.02O", date(2002, time.January, 1), true},
		{"pivot 79 is 2079", "CHUM0010.79O", date(2079, time.January, 1), true},
		{"pivot 80 is 1980", "CHUM0010.80O", date(1980, time.January, 1), true},
		{"last day 1999", "ABCD3650.99O", date(1999, time.December, 31), true},
		{"four digit year", "ABCD0600.2000O", date(2000, time.February, 29), true},
		{"leap year day 366", "ABCD3660.00O", date(2000, time.December, 31), true},
		{"leap year 2004 day 60", "ABCD0600.04O", date(2004, time.February, 29), true},
		{"non-leap 2002 day 60", "ABCD0600.02O", date(2002, time.March, 1), true},
		{"non-leap day 366", "ABCD3660.02O", FallbackDate, false},
		{"day zero", "ABCD0000.02O", FallbackDate, false},
		{"not observation", "ABCD0010.02N", FallbackDate, false},
		{"no date", "notes.o", FallbackDate, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FileDate(tt.filename)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsLeapYear(t *testing.T) {
	for _, y := range []int{1996, 2000, 2004, 2400} {
		assert.True(t, IsLeapYear(y), y)
		assert.Equal(t, 366, DaysInYear(y), y)
	}
	for _, y := range []int{1900, 2002, 2100, 2003} {
		assert.False(t, IsLeapYear(y), y)
		assert.Equal(t, 365, DaysInYear(y), y)
	}
}

func TestDayOfYearDate(t *testing.T) {
	tests := []struct {
		year, doy int
		want      time.Time
		ok        bool
	}{
		{1900, 59, date(1900, time.February, 28), true},
		{1900, 60, date(1900, time.March, 1), true},
		{2000, 60, date(2000, time.February, 29), true},
		{2000, 61, date(2000, time.March, 1), true},
		{2002, 365, date(2002, time.December, 31), true},
		{2002, 366, time.Time{}, false},
		{2002, 0, time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := DayOfYearDate(tt.year, tt.doy)
		assert.Equal(t, tt.ok, ok, "%d/%d", tt.year, tt.doy)
		assert.Equal(t, tt.want, got, "%d/%d", tt.year, tt.doy)
	}
}

func TestDayOfYearDate_MatchesTimePackage(t *testing.T) {
	for _, year := range []int{1999, 2000, 2023, 2024} {
		for doy := 1; doy <= DaysInYear(year); doy++ {
			got, ok := DayOfYearDate(year, doy)
			want := date(year, time.January, 1).AddDate(0, 0, doy-1)
			if !ok || !got.Equal(want) {
				t.Fatalf("DayOfYearDate(%d, %d) = %v, %v; want %v", year, doy, got, ok, want)
			}
		}
	}
}
