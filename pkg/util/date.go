package util

import "time"

// DayFormat is the ISO calendar-day layout used across the service.
const DayFormat = "2006-01-02"

// ParseDay parses an ISO YYYY-MM-DD string. Returns (t, true) if it worked.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDay renders t as an ISO YYYY-MM-DD string.
func FormatDay(t time.Time) string { return t.Format(DayFormat) }

// UnixDay converts an epoch-seconds timestamp to its ISO day in loc.
func UnixDay(sec int64, loc *time.Location) string {
	return time.Unix(sec, 0).In(loc).Format(DayFormat)
}
