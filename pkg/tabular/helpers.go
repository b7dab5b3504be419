package tabular

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Helper functions exposed to generated snippets alongside the frames.
// Snippets reference these by name, so signatures are part of the
// generation contract and must stay stable.

// ParseDay parses a day.month.year date like "01.01.2024".
func ParseDay(s string) (time.Time, error) {
	return time.Parse("02.01.2006", strings.TrimSpace(s))
}

// MonthColumns returns the wide-format month columns of a frame.
func MonthColumns(f *Frame) []string {
	return f.MonthColumns()
}

// ToNumber coerces a cell value to float64. Strings are parsed tolerantly
// (both decimal separators, space thousands groups); anything unparseable
// yields 0.
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		if n, ok := parseNumber(x, ","); ok {
			return n
		}
		if n, ok := parseNumber(x, "."); ok {
			return n
		}
	}
	return 0
}

// Abs returns the absolute value of x.
func Abs(x float64) float64 { return math.Abs(x) }

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}

// parseNumber parses a numeric string using the given decimal separator.
// Space and non-breaking-space thousands separators are stripped.
func parseNumber(s, decimal string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if decimal == "," {
		switch {
		case strings.Contains(s, ","):
			// A period alongside a comma is a thousands separator.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		case strings.Contains(s, "."):
			// A bare period is ambiguous in comma-decimal data; let the
			// dot-decimal attempt handle it.
			return 0, false
		}
	} else if strings.Contains(s, ",") {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
