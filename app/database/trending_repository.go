package database

import (
	"context"
	"fmt"
	"time"
)

var _ TrendingRepository = (*TrendingStore)(nil)

// TrendingStore handles database operations for trending records
type TrendingStore struct {
	db *DB
}

// NewTrendingStore creates a new trending repository
func NewTrendingStore(db *DB) *TrendingStore {
	return &TrendingStore{db: db}
}

func (r *TrendingStore) InsertTrending(ctx context.Context, videoID, channelID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO trending_videos (video_id, channel_id, detected_at)
		VALUES (?, ?, ?)
		ON CONFLICT (video_id) DO NOTHING
	`, videoID, channelID, formatTime(time.Now()))
	if err != nil {
		return false, fmt.Errorf("failed to insert trending record: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check trending insert result: %w", err)
	}

	return rows > 0, nil
}

func (r *TrendingStore) GetTrendingVideos(ctx context.Context, limit int) ([]TrendingVideo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT video_id, channel_id, detected_at
		FROM trending_videos
		ORDER BY detected_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get trending videos: %w", err)
	}
	defer rows.Close()

	var trending []TrendingVideo
	for rows.Next() {
		var record TrendingVideo
		var detectedAt string
		if err := rows.Scan(&record.VideoID, &record.ChannelID, &detectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trending row: %w", err)
		}
		record.DetectedAt = parseTime(detectedAt)
		trending = append(trending, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trending rows: %w", err)
	}

	return trending, nil
}

func (r *TrendingStore) GetTrendingCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trending_videos`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get trending count: %w", err)
	}
	return count, nil
}
