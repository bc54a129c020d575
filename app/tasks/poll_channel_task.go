package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trendwatch/app/config"
	"trendwatch/app/database"
)

// PollChannelTask discovers new uploads for a single channel. Only videos
// published inside the recency window count as newly discovered; anything
// older is history, not a discovery.
type PollChannelTask struct {
	Task
	Channel   database.Channel
	source    MetricSource
	videoRepo database.VideoRepository
	stages    StageRegistrar
	detection *config.Config
}

func NewPollChannelTask(channel database.Channel, source MetricSource, videoRepo database.VideoRepository,
	stages StageRegistrar, detection *config.Config) *PollChannelTask {
	return &PollChannelTask{
		Task:      NewTask(TaskTypePollChannel),
		Channel:   channel,
		source:    source,
		videoRepo: videoRepo,
		stages:    stages,
		detection: detection,
	}
}

func (t *PollChannelTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	entries, err := t.source.FetchRecentVideos(ctx, t.Channel.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch recent videos for channel %s: %w", t.Channel.ID, err)
	}

	cutoff := time.Now().UTC().Add(-t.detection.Detection.GetRecencyWindow())

	discovered := 0
	for _, entry := range entries {
		if entry.PublishedAt.Before(cutoff) {
			continue
		}

		inserted, err := t.videoRepo.InsertVideo(ctx, database.Video{
			ID:          entry.ID,
			ChannelID:   t.Channel.ID,
			Title:       entry.Title,
			PublishedAt: entry.PublishedAt,
		})
		if err != nil {
			slog.Error("Failed to persist discovered video", "video", entry.ID, "channel", t.Channel.ID, "error", err)
			continue
		}
		if !inserted {
			// Already discovered in an earlier cycle
			continue
		}

		t.stages.Register(entry.ID, t.Channel.ID, entry.PublishedAt, config.CheckOffsets)
		discovered++

		slog.Info("Scheduled checks for new video", "video", entry.ID, "channel", t.Channel.ID, "title", entry.Title, "published_at", entry.PublishedAt.Format(time.RFC3339))
	}

	slog.Debug("Task completed", "type", "PollChannel", "channel", t.Channel.ID, "duration", t.GetDuration(), "entries", len(entries), "new", discovered)

	return nil
}
