package trend

import (
	"context"
	"fmt"
	"log/slog"

	"trendwatch/app/config"
	"trendwatch/app/database"
	"trendwatch/app/notify"
)

// Detector decides whether a freshly sampled view count makes a video
// trending, records the first crossing and sends the alert.
type Detector struct {
	channels    database.ChannelRepository
	trending    database.TrendingRepository
	notifier    notify.Notifier
	multipliers map[int]float64
}

// NewDetector validates that the multiplier table covers every check offset
// before anything is scheduled; a hole in the table is a startup failure,
// not a runtime one.
func NewDetector(channels database.ChannelRepository, trending database.TrendingRepository,
	notifier notify.Notifier, multipliers map[int]float64) (*Detector, error) {
	for _, offset := range config.CheckOffsets {
		if _, ok := multipliers[offset]; !ok {
			return nil, fmt.Errorf("no multiplier configured for %dh offset", offset)
		}
	}

	return &Detector{
		channels:    channels,
		trending:    trending,
		notifier:    notifier,
		multipliers: multipliers,
	}, nil
}

// Evaluate returns true when the channel has a baseline for the offset and
// the views reach baseline times the offset's multiplier. An absent
// baseline never trends, regardless of the view count.
func (d *Detector) Evaluate(ctx context.Context, channelID string, offset int, views int64) (bool, error) {
	baseline, err := d.channels.GetBaseline(ctx, channelID, offset)
	if err != nil {
		return false, fmt.Errorf("failed to read baseline: %w", err)
	}
	if baseline == nil {
		return false, nil
	}

	multiplier, ok := d.multipliers[offset]
	if !ok {
		return false, fmt.Errorf("no multiplier configured for %dh offset", offset)
	}

	return float64(views) >= *baseline*multiplier, nil
}

// Process runs the full decision for one sample: evaluate, record the first
// crossing, notify. Returns true only when this call created the trending
// record; later crossings of the same video are no-ops.
func (d *Detector) Process(ctx context.Context, video *database.Video, offset int, views int64) (bool, error) {
	isTrending, err := d.Evaluate(ctx, video.ChannelID, offset, views)
	if err != nil {
		return false, err
	}
	if !isTrending {
		return false, nil
	}

	flagged, err := d.trending.InsertTrending(ctx, video.ID, video.ChannelID)
	if err != nil {
		return false, fmt.Errorf("failed to record trending video: %w", err)
	}
	if !flagged {
		slog.Debug("Video already flagged as trending", "video", video.ID)
		return false, nil
	}

	slog.Info("Trending video detected", "video", video.ID, "channel", video.ChannelID, "offset_hours", offset, "views", views)

	text := fmt.Sprintf("Trending: %q hit %d views %dh after publish\nhttps://youtu.be/%s", video.Title, views, offset, video.ID)
	if err := d.notifier.Notify(ctx, text); err != nil {
		// Delivery failure never fails the pipeline
		slog.Warn("Failed to send trending notification", "video", video.ID, "error", err)
	}

	return true, nil
}
