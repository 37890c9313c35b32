package utility

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TimePartUnit selects the component TimePart extracts.
type TimePartUnit string

const (
	Hours   TimePartUnit = "h"
	Minutes TimePartUnit = "m"
)

// SecondsFromTimeParts converts a wall-clock hour and minute to seconds since midnight.
func SecondsFromTimeParts(hours, minutes int) int {
	return hours*3600 + minutes*60
}

// TimePart extracts the hour or minute component from seconds since midnight.
// Unknown units yield 0.
func TimePart(seconds int, unit TimePartUnit) int {
	switch unit {
	case Minutes:
		return (seconds % 3600) / 60
	case Hours:
		return int(math.Floor(float64(seconds) / 3600))
	default:
		return 0
	}
}

// TimePartUTC shifts a UTC seconds-since-midnight value by the "+hh:mm"
// offset before extracting unit.
func TimePartUTC(seconds int, unit TimePartUnit, offset string) int {
	return TimePart(seconds+SecondsFromTimezoneString(offset), unit)
}

// TimezoneFromString parses "+hh:mm" / "-hh:mm" into fractional hours.
// Any first character other than '+' is a negative offset. Minutes other
// than 00 and 30, including a missing ":mm", count as 45, so "+05" is 5.75.
// Hours are read from the leading digits ("05x:30" is 5.5); input without
// leading digits yields 0.
func TimezoneFromString(offset string) float64 {
	offset = strings.TrimSpace(offset)
	if offset == "" {
		return 0
	}
	sign := -1.0
	if offset[0] == '+' {
		sign = 1
	}

	hh, mm, _ := strings.Cut(offset[1:], ":")
	hours, ok := leadingInt(hh)
	if !ok {
		return 0
	}

	var fraction float64
	switch mm {
	case "00":
		fraction = 0
	case "30":
		fraction = 0.5
	default:
		fraction = 0.75
	}
	return (float64(hours) + fraction) * sign
}

// leadingInt reads an optionally signed run of digits from the start of s,
// ignoring whatever follows.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// StringFromTimezone formats fractional hours as "+hh:mm".
func StringFromTimezone(tz float64) string {
	sign := "+"
	if tz < 0 {
		sign = "-"
	}
	whole := math.Trunc(math.Abs(tz))
	fraction := math.Abs(tz) - whole

	minutes := "45"
	switch fraction {
	case 0:
		minutes = "00"
	case 0.5:
		minutes = "30"
	}
	return fmt.Sprintf("%s%02d:%s", sign, int(whole), minutes)
}

// SecondsFromTimezoneString converts a "+hh:mm" offset to seconds.
func SecondsFromTimezoneString(offset string) int {
	return int(math.Round(TimezoneFromString(offset) * 3600))
}

// RoundTo rounds x to the given number of decimal places.
func RoundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// IsNaNOrEmpty reports whether x is NaN or zero.
func IsNaNOrEmpty(x float64) bool {
	return math.IsNaN(x) || x == 0
}
