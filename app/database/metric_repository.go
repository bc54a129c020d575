package database

import (
	"context"
	"fmt"
	"time"
)

var _ MetricRepository = (*MetricStore)(nil)

// MetricStore handles database operations for metric samples
type MetricStore struct {
	db *DB
}

// NewMetricStore creates a new metric repository
func NewMetricStore(db *DB) *MetricStore {
	return &MetricStore{db: db}
}

func (r *MetricStore) InsertSample(ctx context.Context, sample MetricSample) (bool, error) {
	sampledAt := sample.SampledAt
	if sampledAt.IsZero() {
		sampledAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO video_metrics (video_id, hours_from_publish, views, likes, comments, sampled_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (video_id, hours_from_publish) DO NOTHING
	`, sample.VideoID, sample.HoursFromPublish, sample.Views, sample.Likes, sample.Comments, formatTime(sampledAt))
	if err != nil {
		return false, fmt.Errorf("failed to insert sample: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check sample insert result: %w", err)
	}

	return rows > 0, nil
}

func (r *MetricStore) GetSampledOffsets(ctx context.Context, videoID string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT hours_from_publish FROM video_metrics
		WHERE video_id = ?
		ORDER BY hours_from_publish
	`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sampled offsets: %w", err)
	}
	defer rows.Close()

	var offsets []int
	for rows.Next() {
		var offset int
		if err := rows.Scan(&offset); err != nil {
			return nil, fmt.Errorf("failed to scan offset row: %w", err)
		}
		offsets = append(offsets, offset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offset rows: %w", err)
	}

	return offsets, nil
}

func (r *MetricStore) GetAverageViews(ctx context.Context, channelID string, window int) (map[int]float64, error) {
	// Per offset, only the channel's most recent window videos that actually
	// have a sample at that offset contribute to the average.
	rows, err := r.db.QueryContext(ctx, `
		SELECT hours_from_publish, AVG(views)
		FROM (
			SELECT m.hours_from_publish, m.views,
			       ROW_NUMBER() OVER (
			           PARTITION BY m.hours_from_publish
			           ORDER BY v.published_at DESC
			       ) AS recency_rank
			FROM video_metrics m
			JOIN videos v ON v.id = m.video_id
			WHERE v.channel_id = ?
		)
		WHERE recency_rank <= ?
		GROUP BY hours_from_publish
	`, channelID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average views: %w", err)
	}
	defer rows.Close()

	averages := make(map[int]float64)
	for rows.Next() {
		var offset int
		var avg float64
		if err := rows.Scan(&offset, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan average row: %w", err)
		}
		averages[offset] = avg
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating average rows: %w", err)
	}

	return averages, nil
}

func (r *MetricStore) GetSampleCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM video_metrics`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get sample count: %w", err)
	}
	return count, nil
}
