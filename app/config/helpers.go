package config

import (
	"time"
)

// GetTimeout returns the upstream call timeout as time.Duration
func (s *SourceSettings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 15 * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}

// GetRecencyWindow returns the discovery recency window as time.Duration
func (s *DetectionSettings) GetRecencyWindow() time.Duration {
	if s.RecencyWindowHours <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(s.RecencyWindowHours) * time.Hour
}

// Horizon returns the largest check offset as a duration. Videos older than
// this can have no pending stages left.
func Horizon() time.Duration {
	max := 0
	for _, offset := range CheckOffsets {
		if offset > max {
			max = offset
		}
	}
	return time.Duration(max) * time.Hour
}
