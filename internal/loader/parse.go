package loader

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func isNull(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NaN", "NA", "null":
		return true
	}
	return false
}

// parseTimestamp coerces a cell to a UTC time; unparsable cells become nil.
func parseTimestamp(s string) *time.Time {
	if isNull(s) {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

func parseFloat(s string) (float64, bool) {
	if isNull(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parsePrice reads a money cell without going through float64. Empty or
// malformed cells yield an invalid value.
func parsePrice(s string) decimal.NullDecimal {
	if isNull(s) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// parseInt accepts integral floats such as "5.0", which spreadsheets emit.
func parseInt(s string) (int, bool) {
	v, ok := parseFloat(s)
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

func nullable(s string) string {
	if isNull(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// wholeDays floors a duration to days, matching negative spans to the
// earlier day boundary.
func wholeDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}
