package utils

import (
	"time"
)

// PathTimeLayout is the waypoint time format of generated truck paths (UTC)
const PathTimeLayout = "20060102 15:04:05"

// Iso8601 formats t in UTC as RFC3339
func Iso8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Iso8601Now returns the current time in ISO8601 format
func Iso8601Now() string {
	return Iso8601(time.Now())
}

// Iso8601DateOf returns just the date portion in YYYY-MM-DD format
func Iso8601DateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ValidUntilFrom calculates the valid until timestamp
func ValidUntilFrom(base time.Time, validForMS int) string {
	if base.IsZero() || validForMS <= 0 {
		return ""
	}
	return Iso8601(base.Add(time.Duration(validForMS) * time.Millisecond))
}

// ParsePathTime parses a waypoint time such as "20180730 08:15:00" as UTC
func ParsePathTime(s string) (time.Time, error) {
	return time.ParseInLocation(PathTimeLayout, s, time.UTC)
}

// ParseMoment parses a clock moment. RFC3339 (with or without fractional
// seconds) is preferred; the path layout is accepted as a fallback.
func ParseMoment(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t.UTC(), nil
	}
	if t2, err2 := ParsePathTime(s); err2 == nil {
		return t2, nil
	}
	return time.Time{}, err
}
