package database

import (
	"context"
	"time"
)

type ChannelRepository interface {
	// AddChannel registers a channel. Returns false when it already exists.
	AddChannel(ctx context.Context, id, url string) (bool, error)
	RemoveChannel(ctx context.Context, id string) error
	GetChannel(ctx context.Context, id string) (*Channel, error)
	GetAllChannels(ctx context.Context) ([]Channel, error)
	GetChannelCount(ctx context.Context) (int, error)

	// GetBaseline returns nil when no baseline exists for the offset yet.
	GetBaseline(ctx context.Context, channelID string, hoursFromPublish int) (*float64, error)
	UpsertBaseline(ctx context.Context, channelID string, hoursFromPublish int, avgViews float64) error
}

type VideoRepository interface {
	// InsertVideo persists a newly discovered video. Returns false when the
	// video id was already present (duplicate discovery is a no-op).
	InsertVideo(ctx context.Context, video Video) (bool, error)
	VideoExists(ctx context.Context, id string) (bool, error)
	GetVideo(ctx context.Context, id string) (*Video, error)
	GetVideosPublishedSince(ctx context.Context, cutoff time.Time) ([]Video, error)
	GetVideoCount(ctx context.Context) (int, error)
}

type MetricRepository interface {
	// InsertSample persists a measurement. Returns false when a sample for
	// the (video, offset) pair already exists; the stored row is untouched.
	InsertSample(ctx context.Context, sample MetricSample) (bool, error)
	GetSampledOffsets(ctx context.Context, videoID string) ([]int, error)
	// GetAverageViews computes, per offset, the mean view count across the
	// channel's most recent window videos that have a sample at that offset.
	GetAverageViews(ctx context.Context, channelID string, window int) (map[int]float64, error)
	GetSampleCount(ctx context.Context) (int, error)
}

type TrendingRepository interface {
	// InsertTrending records the first threshold crossing for a video.
	// Returns false when the video was already flagged.
	InsertTrending(ctx context.Context, videoID, channelID string) (bool, error)
	GetTrendingVideos(ctx context.Context, limit int) ([]TrendingVideo, error)
	GetTrendingCount(ctx context.Context) (int, error)
}
