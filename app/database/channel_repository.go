package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var _ ChannelRepository = (*ChannelStore)(nil)

// ChannelStore handles database operations for channels and their baselines
type ChannelStore struct {
	db *DB
}

// NewChannelStore creates a new channel repository
func NewChannelStore(db *DB) *ChannelStore {
	return &ChannelStore{db: db}
}

func (r *ChannelStore) AddChannel(ctx context.Context, id, url string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO channels (id, url, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, id, url, formatTime(time.Now()))
	if err != nil {
		return false, fmt.Errorf("failed to add channel: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check channel insert result: %w", err)
	}

	return rows > 0, nil
}

func (r *ChannelStore) RemoveChannel(ctx context.Context, id string) error {
	// Videos, samples, baselines and trending records cascade via FK
	_, err := r.db.ExecContext(ctx, `DELETE FROM channels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove channel: %w", err)
	}
	return nil
}

func (r *ChannelStore) GetChannel(ctx context.Context, id string) (*Channel, error) {
	var channel Channel
	var createdAt string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, url, created_at FROM channels WHERE id = ?
	`, id).Scan(&channel.ID, &channel.URL, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	channel.CreatedAt = parseTime(createdAt)
	return &channel, nil
}

func (r *ChannelStore) GetAllChannels(ctx context.Context) ([]Channel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, url, created_at FROM channels ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get channels: %w", err)
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var channel Channel
		var createdAt string
		if err := rows.Scan(&channel.ID, &channel.URL, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
		channel.CreatedAt = parseTime(createdAt)
		channels = append(channels, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel rows: %w", err)
	}

	return channels, nil
}

func (r *ChannelStore) GetChannelCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM channels`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get channel count: %w", err)
	}
	return count, nil
}

func (r *ChannelStore) GetBaseline(ctx context.Context, channelID string, hoursFromPublish int) (*float64, error) {
	var avgViews float64
	err := r.db.QueryRowContext(ctx, `
		SELECT avg_views FROM channel_baselines
		WHERE channel_id = ? AND hours_from_publish = ?
	`, channelID, hoursFromPublish).Scan(&avgViews)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get baseline: %w", err)
	}

	return &avgViews, nil
}

func (r *ChannelStore) UpsertBaseline(ctx context.Context, channelID string, hoursFromPublish int, avgViews float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO channel_baselines (channel_id, hours_from_publish, avg_views, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (channel_id, hours_from_publish) DO UPDATE SET
			avg_views = excluded.avg_views,
			updated_at = excluded.updated_at
	`, channelID, hoursFromPublish, avgViews, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to upsert baseline: %w", err)
	}
	return nil
}

// formatTime renders a fixed-width UTC timestamp. Second precision keeps
// lexicographic TEXT comparison monotonic; RFC3339Nano would trim trailing
// fractional zeros and break ordering within a second.
func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
