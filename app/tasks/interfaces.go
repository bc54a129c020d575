package tasks

import (
	"context"
	"time"

	"trendwatch/app/database"
	"trendwatch/app/youtube"
)

// SchedulerInterface is the engine surface exposed to the command layer:
// lifecycle control plus observability of not-yet-fired stages.
type SchedulerInterface interface {
	Start(pollInterval time.Duration) error
	Stop() error
	Running() bool
	EnqueueTask(task TaskInterface) error
	PendingStages() []Stage
	CancelChannelStages(channelID string)
}

// MetricSource retrieves channel uploads and per-video metric snapshots
type MetricSource interface {
	FetchRecentVideos(ctx context.Context, channelID string) ([]youtube.VideoEntry, error)
	FetchMetrics(ctx context.Context, videoID string) (*youtube.Metrics, error)
}

// StageRegistrar accepts stage registrations for newly discovered videos
type StageRegistrar interface {
	Register(videoID, channelID string, publishedAt time.Time, offsets []int) bool
}

// TrendProcessor runs the trending decision for one sample
type TrendProcessor interface {
	Process(ctx context.Context, video *database.Video, offset int, views int64) (bool, error)
}

// BaselineRecomputer rebuilds a channel's rolling baselines
type BaselineRecomputer interface {
	Recompute(ctx context.Context, channelID string) error
}
