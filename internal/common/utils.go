package common

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DayLayout is the canonical date format used in the dataset and in query strings.
const DayLayout = "2006-01-02"

// HasScheme reports whether s starts with one of the URL schemes, ignoring case.
func HasScheme(s string, schemes ...string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, scheme := range schemes {
		if strings.HasPrefix(s, strings.ToLower(scheme)+"://") {
			return true
		}
	}
	return false
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a date in any layout dateparse understands and truncates it to the day.
// Values without a zone are read as UTC.
func ParseDay(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// FormatDay renders t in DayLayout, or "" for the zero time.
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DayLayout)
}
