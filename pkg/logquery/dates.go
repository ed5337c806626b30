package logquery

import (
	"fmt"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// isoLayouts are the ISO-8601 forms accepted for filter bounds and display
// formatting, tried in order. time.Parse tolerates fractional seconds after
// the seconds field, so these three cover date, datetime and offset forms.
var isoLayouts = []string{
	time.RFC3339,
	dateTimeLayout,
	dateLayout,
}

// parseISODate parses an ISO-8601 date or datetime string.
func parseISODate(s string) (time.Time, error) {
	var err error
	for _, layout := range isoLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// ValidateDateFormat validates a strict YYYY-MM-DD date string and returns
// its ISO-8601 datetime representation with the time defaulted to midnight,
// e.g. "2024-01-15" -> "2024-01-15T00:00:00".
//
// The returned error wraps ErrInvalidArgument and carries the underlying
// parse failure.
func ValidateDateFormat(dateStr string) (string, error) {
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return "", fmt.Errorf("%w: invalid date format, use YYYY-MM-DD: %v", ErrInvalidArgument, err)
	}
	return t.Format(dateTimeLayout), nil
}

// FormatDateForDisplay reformats an ISO-8601 date string as YYYY-MM-DD.
//
// On parse failure the input is returned unchanged: display code rendering
// stored values must not crash on malformed data.
func FormatDateForDisplay(isoDate string) string {
	t, err := parseISODate(isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format(dateLayout)
}
