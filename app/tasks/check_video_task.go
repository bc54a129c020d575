package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"trendwatch/app/database"
	"trendwatch/app/youtube"
)

// CheckVideoTask runs the measurement pipeline for one fired stage:
// sample the metrics, persist them, decide trending, refresh the channel
// baseline. Each step's failure halts the pipeline there; the stage is
// consumed either way and never retried.
type CheckVideoTask struct {
	Task
	Stage      Stage
	source     MetricSource
	videoRepo  database.VideoRepository
	metricRepo database.MetricRepository
	detector   TrendProcessor
	baselines  BaselineRecomputer
	locks      *channelLocks
}

func NewCheckVideoTask(stage Stage, source MetricSource, videoRepo database.VideoRepository,
	metricRepo database.MetricRepository, detector TrendProcessor, baselines BaselineRecomputer,
	locks *channelLocks) *CheckVideoTask {
	return &CheckVideoTask{
		Task:       NewTask(TaskTypeCheckVideo),
		Stage:      stage,
		source:     source,
		videoRepo:  videoRepo,
		metricRepo: metricRepo,
		detector:   detector,
		baselines:  baselines,
		locks:      locks,
	}
}

func (t *CheckVideoTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	metrics, err := t.source.FetchMetrics(ctx, t.Stage.VideoID)
	if errors.Is(err, youtube.ErrNotFound) {
		slog.Info("Video no longer available, skipping check", "video", t.Stage.VideoID, "offset_hours", t.Stage.Offset)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch metrics for video %s: %w", t.Stage.VideoID, err)
	}

	video, err := t.videoRepo.GetVideo(ctx, t.Stage.VideoID)
	if err != nil {
		return fmt.Errorf("failed to load video %s: %w", t.Stage.VideoID, err)
	}
	if video == nil {
		// Channel was removed while this stage was in flight
		slog.Info("Video no longer tracked, skipping check", "video", t.Stage.VideoID)
		return nil
	}

	// Everything from the sample insert to the baseline recompute runs
	// inside the channel's critical section.
	lock := t.locks.Get(t.Stage.ChannelID)
	lock.Lock()
	defer lock.Unlock()

	inserted, err := t.metricRepo.InsertSample(ctx, database.MetricSample{
		VideoID:          t.Stage.VideoID,
		HoursFromPublish: t.Stage.Offset,
		Views:            metrics.Views,
		Likes:            metrics.Likes,
		Comments:         metrics.Comments,
	})
	if err != nil {
		return fmt.Errorf("failed to store sample for video %s at %dh: %w", t.Stage.VideoID, t.Stage.Offset, err)
	}
	if !inserted {
		slog.Debug("Sample already recorded, skipping", "video", t.Stage.VideoID, "offset_hours", t.Stage.Offset)
		return nil
	}

	if _, err := t.detector.Process(ctx, video, t.Stage.Offset, metrics.Views); err != nil {
		return fmt.Errorf("failed to evaluate trending for video %s: %w", t.Stage.VideoID, err)
	}

	if err := t.baselines.Recompute(ctx, t.Stage.ChannelID); err != nil {
		return fmt.Errorf("failed to recompute baselines for channel %s: %w", t.Stage.ChannelID, err)
	}

	slog.Info("Task completed",
		"type", "CheckVideo",
		"video", t.Stage.VideoID,
		"channel", t.Stage.ChannelID,
		"offset_hours", t.Stage.Offset,
		"views", metrics.Views,
		"duration", t.GetDuration())

	return nil
}
