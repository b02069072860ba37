package config

import (
	"fmt"
	"time"
)

// Window parses StartTime and EndTime. Unset values are returned as zero times.
func (h HeartBeatConfig) Window() (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if h.StartTime != "" {
		if start, err = time.Parse(time.RFC3339, h.StartTime); err != nil {
			return start, end, fmt.Errorf("heartbeat startTime: %w", err)
		}
	}
	if h.EndTime != "" {
		if end, err = time.Parse(time.RFC3339, h.EndTime); err != nil {
			return start, end, fmt.Errorf("heartbeat endTime: %w", err)
		}
	}
	return start.UTC(), end.UTC(), nil
}

// Interval returns the beat period
func (h HeartBeatConfig) Interval() time.Duration {
	return time.Duration(h.IntervalMS) * time.Millisecond
}
