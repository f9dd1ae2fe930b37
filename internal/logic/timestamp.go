package logic

import (
	"strings"
	"time"
)

// NormalizeTimestamp converts a combat-log timestamp ("YYYYMMDD-HH:MM:SS:mmm")
// into seconds since the Unix epoch with a millisecond fraction. The date is
// part of the value so sessions that cross midnight stay ordered.
// Malformed input yields 0.
func NormalizeTimestamp(raw string) float64 {
	ts, _ := ParseTimestamp(raw)
	return ts
}

// ParseTimestamp is NormalizeTimestamp with an explicit validity flag.
func ParseTimestamp(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	datePart, clockPart, ok := strings.Cut(raw, "-")
	if !ok || len(datePart) != 8 {
		return 0, false
	}

	year, ok1 := atoiDigits(datePart[0:4])
	month, ok2 := atoiDigits(datePart[4:6])
	day, ok3 := atoiDigits(datePart[6:8])
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}

	clock := strings.Split(clockPart, ":")
	if len(clock) != 4 {
		return 0, false
	}
	var parts [4]int
	for i, c := range clock {
		n, ok := atoiDigits(c)
		if !ok {
			return 0, false
		}
		parts[i] = n
	}
	hour, minute, second, milli := parts[0], parts[1], parts[2], parts[3]

	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour > 23 || minute > 59 || second > 59 || milli > 999 {
		return 0, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes Feb 30 into March; reject instead
	if t.Day() != day {
		return 0, false
	}

	return float64(t.Unix()) + float64(milli)/1000, true
}

// atoiDigits parses a non-empty run of ASCII digits.
func atoiDigits(s string) (int, bool) {
	if s == "" || len(s) > 9 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
