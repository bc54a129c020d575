package trend

import (
	"context"
	"time"

	"trendwatch/app/database"
)

type mockChannelRepo struct {
	baselines   map[int]float64
	upserted    map[int]float64
	baselineErr error
}

func newMockChannelRepo() *mockChannelRepo {
	return &mockChannelRepo{
		baselines: make(map[int]float64),
		upserted:  make(map[int]float64),
	}
}

func (m *mockChannelRepo) AddChannel(ctx context.Context, id, url string) (bool, error) {
	return true, nil
}

func (m *mockChannelRepo) RemoveChannel(ctx context.Context, id string) error {
	return nil
}

func (m *mockChannelRepo) GetChannel(ctx context.Context, id string) (*database.Channel, error) {
	return nil, nil
}

func (m *mockChannelRepo) GetAllChannels(ctx context.Context) ([]database.Channel, error) {
	return nil, nil
}

func (m *mockChannelRepo) GetChannelCount(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *mockChannelRepo) GetBaseline(ctx context.Context, channelID string, hoursFromPublish int) (*float64, error) {
	if m.baselineErr != nil {
		return nil, m.baselineErr
	}
	baseline, ok := m.baselines[hoursFromPublish]
	if !ok {
		return nil, nil
	}
	return &baseline, nil
}

func (m *mockChannelRepo) UpsertBaseline(ctx context.Context, channelID string, hoursFromPublish int, avgViews float64) error {
	m.upserted[hoursFromPublish] = avgViews
	return nil
}

type mockTrendingRepo struct {
	flagged map[string]bool
	inserts int
}

func newMockTrendingRepo() *mockTrendingRepo {
	return &mockTrendingRepo{flagged: make(map[string]bool)}
}

func (m *mockTrendingRepo) InsertTrending(ctx context.Context, videoID, channelID string) (bool, error) {
	if m.flagged[videoID] {
		return false, nil
	}
	m.flagged[videoID] = true
	m.inserts++
	return true, nil
}

func (m *mockTrendingRepo) GetTrendingVideos(ctx context.Context, limit int) ([]database.TrendingVideo, error) {
	return nil, nil
}

func (m *mockTrendingRepo) GetTrendingCount(ctx context.Context) (int, error) {
	return len(m.flagged), nil
}

type mockMetricRepo struct {
	averages map[int]float64
	err      error
}

func (m *mockMetricRepo) InsertSample(ctx context.Context, sample database.MetricSample) (bool, error) {
	return true, nil
}

func (m *mockMetricRepo) GetSampledOffsets(ctx context.Context, videoID string) ([]int, error) {
	return nil, nil
}

func (m *mockMetricRepo) GetAverageViews(ctx context.Context, channelID string, window int) (map[int]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.averages, nil
}

func (m *mockMetricRepo) GetSampleCount(ctx context.Context) (int, error) {
	return 0, nil
}

type mockNotifier struct {
	messages []string
	err      error
}

func (m *mockNotifier) Notify(ctx context.Context, text string) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, text)
	return nil
}

func testVideo(id, channelID string) *database.Video {
	return &database.Video{
		ID:          id,
		ChannelID:   channelID,
		Title:       "Test Video",
		PublishedAt: time.Now().UTC(),
	}
}
