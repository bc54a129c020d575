package database

import (
	"time"
)

type Channel struct {
	ID        string
	URL       string
	CreatedAt time.Time
}

type Video struct {
	ID          string
	ChannelID   string
	Title       string
	PublishedAt time.Time
	CreatedAt   time.Time
}

// MetricSample is a single measurement of a video at a fixed offset after
// publication. At most one sample exists per (video, offset).
type MetricSample struct {
	VideoID          string
	HoursFromPublish int
	Views            int64
	Likes            int64
	Comments         int64
	SampledAt        time.Time
}

type TrendingVideo struct {
	VideoID    string
	ChannelID  string
	DetectedAt time.Time
}
