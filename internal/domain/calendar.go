package domain

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// MinSupportedYear is the first year of the POWER daily record.
	MinSupportedYear = 1981

	// minSupportedCompact is 1981-01-01 as a YYYYMMDD integer.
	minSupportedCompact = MinSupportedYear*10000 + 101
)

// DefaultMaxAvailableDate is the last day the daily dataset is known to cover.
var DefaultMaxAvailableDate = CalendarDate{Year: 2025, Month: 6, Day: 30}

// CalendarDate is a Gregorian date without time or zone.
type CalendarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// DaysInMonth returns the length of the month, honouring leap years.
// Months outside 1..12 roll over the way time.Date normalizes them.
func DaysInMonth(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Compact returns the date as a YYYYMMDD integer, which orders the same way
// as (year, month, day) lexicographic comparison for valid dates.
func (d CalendarDate) Compact() int {
	return d.Year*10000 + d.Month*100 + d.Day
}

// String renders the date as zero-padded YYYYMMDD, the POWER request format.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// ISO renders the date as YYYY-MM-DD.
func (d CalendarDate) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compare returns -1, 0 or 1 when d is before, equal to or after other.
func (d CalendarDate) Compare(other CalendarDate) int {
	a, b := d.Compact(), other.Compact()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// After reports whether d is strictly later than other.
func (d CalendarDate) After(other CalendarDate) bool {
	return d.Compare(other) > 0
}

// Valid reports whether the month and day exist in the Gregorian calendar.
func (d CalendarDate) Valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	return d.Day <= DaysInMonth(d.Year, d.Month)
}

// ParseCompactDate parses an 8-digit YYYYMMDD key.
func ParseCompactDate(s string) (CalendarDate, error) {
	if len(s) != 8 {
		return CalendarDate{}, fmt.Errorf("parse date %q: want 8 digits", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return CalendarDate{}, fmt.Errorf("parse date %q: not numeric", s)
	}
	d := CalendarDate{Year: n / 10000, Month: n / 100 % 100, Day: n % 100}
	if !d.Valid() {
		return CalendarDate{}, fmt.Errorf("parse date %q: no such day", s)
	}
	return d, nil
}
