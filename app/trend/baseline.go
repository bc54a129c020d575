package trend

import (
	"context"
	"fmt"

	"trendwatch/app/database"
)

// BaselineEngine maintains per-channel rolling view averages, one per check
// offset. Offsets without any sample keep no baseline row at all, which the
// detector treats as "insufficient data".
type BaselineEngine struct {
	channels database.ChannelRepository
	metrics  database.MetricRepository
	window   int
}

func NewBaselineEngine(channels database.ChannelRepository, metrics database.MetricRepository, window int) *BaselineEngine {
	return &BaselineEngine{
		channels: channels,
		metrics:  metrics,
		window:   window,
	}
}

// Recompute rebuilds the channel's baselines from the most recent sampled
// videos. It recomputes from scratch rather than maintaining a running
// average; the window is small and the cost bounded.
func (e *BaselineEngine) Recompute(ctx context.Context, channelID string) error {
	averages, err := e.metrics.GetAverageViews(ctx, channelID, e.window)
	if err != nil {
		return fmt.Errorf("failed to compute averages for channel %s: %w", channelID, err)
	}

	for offset, avg := range averages {
		if err := e.channels.UpsertBaseline(ctx, channelID, offset, avg); err != nil {
			return fmt.Errorf("failed to store baseline for channel %s at %dh: %w", channelID, offset, err)
		}
	}

	return nil
}
