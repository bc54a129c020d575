package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var _ VideoRepository = (*VideoStore)(nil)

// VideoStore handles database operations for discovered videos
type VideoStore struct {
	db *DB
}

// NewVideoStore creates a new video repository
func NewVideoStore(db *DB) *VideoStore {
	return &VideoStore{db: db}
}

func (r *VideoStore) InsertVideo(ctx context.Context, video Video) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO videos (id, channel_id, title, published_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, video.ID, video.ChannelID, video.Title, formatTime(video.PublishedAt), formatTime(time.Now()))
	if err != nil {
		return false, fmt.Errorf("failed to insert video: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check video insert result: %w", err)
	}

	return rows > 0, nil
}

func (r *VideoStore) VideoExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check video existence: %w", err)
	}
	return count > 0, nil
}

func (r *VideoStore) GetVideo(ctx context.Context, id string) (*Video, error) {
	var video Video
	var publishedAt, createdAt string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, channel_id, title, published_at, created_at
		FROM videos WHERE id = ?
	`, id).Scan(&video.ID, &video.ChannelID, &video.Title, &publishedAt, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	video.PublishedAt = parseTime(publishedAt)
	video.CreatedAt = parseTime(createdAt)
	return &video, nil
}

func (r *VideoStore) GetVideosPublishedSince(ctx context.Context, cutoff time.Time) ([]Video, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, channel_id, title, published_at, created_at
		FROM videos
		WHERE published_at >= ?
		ORDER BY published_at
	`, formatTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to get videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		var video Video
		var publishedAt, createdAt string
		if err := rows.Scan(&video.ID, &video.ChannelID, &video.Title, &publishedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		video.PublishedAt = parseTime(publishedAt)
		video.CreatedAt = parseTime(createdAt)
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video rows: %w", err)
	}

	return videos, nil
}

func (r *VideoStore) GetVideoCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get video count: %w", err)
	}
	return count, nil
}
