package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	monthTypingMax = 12
	dayTypingMax   = 31
)

// SanitizeYearLive applies the keystroke policy to a year field. Values below
// MinSupportedYear are kept and reported through the returned advisory.
func SanitizeYearLive(raw string) (value, advisory string) {
	value = sanitizeLive(raw, CurrentYear())
	if value == "" {
		return value, ""
	}
	if n, err := strconv.Atoi(value); err == nil && n < MinSupportedYear {
		advisory = fmt.Sprintf("typing: years below %d allowed while typing but will snap on blur", MinSupportedYear)
	}
	return value, advisory
}

// SanitizeYearCommit applies the blur policy: empty becomes the current year,
// everything else is clamped into [MinSupportedYear, current year].
func SanitizeYearCommit(raw string) int {
	current := CurrentYear()
	return clampInt(orDefault(raw, strconv.Itoa(current)), MinSupportedYear, current)
}

// SanitizeMonthLive applies the keystroke policy to a month field.
func SanitizeMonthLive(raw string) string {
	return sanitizeLive(raw, monthTypingMax)
}

// SanitizeMonthCommit applies the blur policy: empty becomes 1, then [1, 12].
func SanitizeMonthCommit(raw string) int {
	return clampInt(orDefault(raw, "1"), 1, 12)
}

// SanitizeDayLive applies the keystroke policy to a day field.
func SanitizeDayLive(raw string) string {
	return sanitizeLive(raw, dayTypingMax)
}

// SanitizeDayCommit applies the blur policy against the paired group's
// resolved year and month.
func SanitizeDayCommit(raw string, year, month int) int {
	return clampInt(orDefault(raw, "1"), 1, DaysInMonth(year, month))
}

// ClampDayDown lowers a day to the month length when it overflows. Shorter
// values, empty text and unparseable text are returned untouched.
func ClampDayDown(raw string, year, month int) string {
	v, ok := parseNumber(raw)
	if !ok {
		return raw
	}
	if maxDay := DaysInMonth(year, month); v > float64(maxDay) {
		return strconv.Itoa(maxDay)
	}
	return raw
}

// sanitizeLive strips everything but digits and clamps to upper. Empty input
// stays empty and there is no lower bound, so keystrokes are never lost.
func sanitizeLive(raw string, upper int) string {
	digits := stripNonDigits(raw)
	if digits == "" {
		return ""
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n > upper {
		// Atoi only fails here on overflow, which is above any bound.
		return strconv.Itoa(upper)
	}
	return digits
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// clampInt parses s as a number, truncates it and clamps it into [lo, hi].
// Anything unparseable resolves to lo.
func clampInt(s string, lo, hi int) int {
	v, ok := parseNumber(s)
	if !ok {
		return lo
	}
	v = math.Trunc(v)
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
