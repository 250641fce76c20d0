package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// EndOfDay is added to a date-only maximum so the whole day is included
const EndOfDay = 23*60*60 + 59*60 + 59

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// ErrInvalidBound is returned when a min/max input cannot be parsed
var ErrInvalidBound = errors.New("invalid bound")

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	dateTimeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	dateLayout,
}

// ISOToEpoch converts an ISO-8601 date or date/time string to epoch seconds.
// Strings without a zone are read as UTC.
func ISOToEpoch(s string) (int64, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not an ISO-8601 date", ErrInvalidBound, s)
}

// EpochToISO formats epoch seconds for display in a date or datetime input.
// Values that are not positive render as an empty string.
func EpochToISO(v int64, dt models.DataType) string {
	if v <= 0 {
		return ""
	}

	t := time.Unix(v, 0).UTC()
	if dt == models.DataTypeDate {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}

// AdjustMax extends a date-only maximum to the last second of its day.
// Datetime and number bounds are returned unchanged. Callers skip it for a
// cleared input so the bound stays unset.
func AdjustMax(dt models.DataType, v int64) int64 {
	if dt == models.DataTypeDate {
		return v + EndOfDay
	}
	return v
}

// ParseBound converts the raw text of a min/max input into a stored bound.
// An empty input clears the bound.
func ParseBound(dt models.DataType, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	if dt.IsTemporal() {
		return ISOToEpoch(raw)
	}
	return parseIntPrefix(raw)
}

// FormatBound is the inverse of ParseBound for display
func FormatBound(dt models.DataType, v int64) string {
	if v == 0 {
		return ""
	}
	if dt.IsTemporal() {
		t := time.Unix(v, 0).UTC()
		if dt == models.DataTypeDate {
			return t.Format(dateLayout)
		}
		return t.Format(dateTimeLayout)
	}
	return strconv.FormatInt(v, 10)
}

// parseIntPrefix reads the leading integer of s, so "12px" gives 12 and
// "1.5" gives 1. It fails when s does not start with a number.
func parseIntPrefix(s string) (int64, error) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidBound, s)
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBound, err)
	}
	return n, nil
}
