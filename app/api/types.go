package api

import (
	"context"
	"time"

	"trendwatch/app/database"
	"trendwatch/app/tasks"
)

// RecommenderInterface produces a viewer-sentiment summary for a video
type RecommenderInterface interface {
	Recommend(ctx context.Context, videoID, title string) (string, error)
}

type Handler struct {
	source       tasks.MetricSource
	channelRepo  database.ChannelRepository
	videoRepo    database.VideoRepository
	metricRepo   database.MetricRepository
	trendingRepo database.TrendingRepository
	scheduler    tasks.SchedulerInterface
	recommender  RecommenderInterface
	pollInterval time.Duration
}
