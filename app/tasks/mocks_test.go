package tasks

import (
	"context"
	"sync"
	"time"

	"trendwatch/app/config"
	"trendwatch/app/database"
	"trendwatch/app/youtube"
)

type mockSource struct {
	mu               sync.Mutex
	entries          []youtube.VideoEntry
	entriesByChannel map[string][]youtube.VideoEntry
	entriesErr       error
	entriesErrFor    map[string]error
	metrics          map[string]*youtube.Metrics
	metricsErr       error
	fetchCalls       int
}

func (m *mockSource) FetchRecentVideos(ctx context.Context, channelID string) ([]youtube.VideoEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if err, ok := m.entriesErrFor[channelID]; ok {
		return nil, err
	}
	if m.entriesErr != nil {
		return nil, m.entriesErr
	}
	if entries, ok := m.entriesByChannel[channelID]; ok {
		return entries, nil
	}
	return m.entries, nil
}

func (m *mockSource) FetchMetrics(ctx context.Context, videoID string) (*youtube.Metrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.metricsErr != nil {
		return nil, m.metricsErr
	}
	if metrics, ok := m.metrics[videoID]; ok {
		return metrics, nil
	}
	return nil, youtube.ErrNotFound
}

type mockVideoRepo struct {
	mu        sync.Mutex
	videos    map[string]database.Video
	insertErr map[string]error
}

func newMockVideoRepo() *mockVideoRepo {
	return &mockVideoRepo{videos: make(map[string]database.Video)}
}

func (m *mockVideoRepo) InsertVideo(ctx context.Context, video database.Video) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.insertErr[video.ID]; ok {
		return false, err
	}
	if _, exists := m.videos[video.ID]; exists {
		return false, nil
	}
	m.videos[video.ID] = video
	return true, nil
}

func (m *mockVideoRepo) VideoExists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.videos[id]
	return exists, nil
}

func (m *mockVideoRepo) GetVideo(ctx context.Context, id string) (*database.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if video, ok := m.videos[id]; ok {
		return &video, nil
	}
	return nil, nil
}

func (m *mockVideoRepo) GetVideosPublishedSince(ctx context.Context, cutoff time.Time) ([]database.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []database.Video
	for _, video := range m.videos {
		if !video.PublishedAt.Before(cutoff) {
			result = append(result, video)
		}
	}
	return result, nil
}

func (m *mockVideoRepo) GetVideoCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.videos), nil
}

type mockMetricRepo struct {
	mu        sync.Mutex
	samples   map[string]map[int]database.MetricSample
	insertErr error
	averages  map[int]float64
}

func newMockMetricRepo() *mockMetricRepo {
	return &mockMetricRepo{samples: make(map[string]map[int]database.MetricSample)}
}

func (m *mockMetricRepo) InsertSample(ctx context.Context, sample database.MetricSample) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return false, m.insertErr
	}
	if m.samples[sample.VideoID] == nil {
		m.samples[sample.VideoID] = make(map[int]database.MetricSample)
	}
	if _, exists := m.samples[sample.VideoID][sample.HoursFromPublish]; exists {
		return false, nil
	}
	m.samples[sample.VideoID][sample.HoursFromPublish] = sample
	return true, nil
}

func (m *mockMetricRepo) GetSampledOffsets(ctx context.Context, videoID string) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var offsets []int
	for offset := range m.samples[videoID] {
		offsets = append(offsets, offset)
	}
	return offsets, nil
}

func (m *mockMetricRepo) GetAverageViews(ctx context.Context, channelID string, window int) (map[int]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.averages, nil
}

func (m *mockMetricRepo) GetSampleCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, byOffset := range m.samples {
		count += len(byOffset)
	}
	return count, nil
}

func (m *mockMetricRepo) sampleCount(videoID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.samples[videoID])
}

type mockChannelRepo struct {
	mu        sync.Mutex
	channels  []database.Channel
	baselines map[string]map[int]float64
}

func newMockChannelRepo(channels ...database.Channel) *mockChannelRepo {
	return &mockChannelRepo{
		channels:  channels,
		baselines: make(map[string]map[int]float64),
	}
}

func (m *mockChannelRepo) AddChannel(ctx context.Context, id, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, channel := range m.channels {
		if channel.ID == id {
			return false, nil
		}
	}
	m.channels = append(m.channels, database.Channel{ID: id, URL: url})
	return true, nil
}

func (m *mockChannelRepo) RemoveChannel(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.channels[:0]
	for _, channel := range m.channels {
		if channel.ID != id {
			kept = append(kept, channel)
		}
	}
	m.channels = kept
	return nil
}

func (m *mockChannelRepo) GetChannel(ctx context.Context, id string) (*database.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, channel := range m.channels {
		if channel.ID == id {
			c := channel
			return &c, nil
		}
	}
	return nil, nil
}

func (m *mockChannelRepo) GetAllChannels(ctx context.Context) ([]database.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]database.Channel, len(m.channels))
	copy(result, m.channels)
	return result, nil
}

func (m *mockChannelRepo) GetChannelCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.channels), nil
}

func (m *mockChannelRepo) GetBaseline(ctx context.Context, channelID string, hoursFromPublish int) (*float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if byOffset, ok := m.baselines[channelID]; ok {
		if value, ok := byOffset[hoursFromPublish]; ok {
			return &value, nil
		}
	}
	return nil, nil
}

func (m *mockChannelRepo) UpsertBaseline(ctx context.Context, channelID string, hoursFromPublish int, avgViews float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.baselines[channelID] == nil {
		m.baselines[channelID] = make(map[int]float64)
	}
	m.baselines[channelID][hoursFromPublish] = avgViews
	return nil
}

type processCall struct {
	videoID string
	offset  int
	views   int64
}

type mockProcessor struct {
	mu    sync.Mutex
	calls []processCall
	err   error
}

func (m *mockProcessor) Process(ctx context.Context, video *database.Video, offset int, views int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	m.calls = append(m.calls, processCall{videoID: video.ID, offset: offset, views: views})
	return false, nil
}

func (m *mockProcessor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockRecomputer struct {
	mu       sync.Mutex
	channels []string
	err      error
}

func (m *mockRecomputer) Recompute(ctx context.Context, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.channels = append(m.channels, channelID)
	return nil
}

func (m *mockRecomputer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.channels)
}

type registration struct {
	videoID   string
	channelID string
	offsets   []int
}

type mockRegistrar struct {
	mu            sync.Mutex
	registrations []registration
}

func (m *mockRegistrar) Register(videoID, channelID string, publishedAt time.Time, offsets []int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations = append(m.registrations, registration{videoID: videoID, channelID: channelID, offsets: offsets})
	return true
}

func (m *mockRegistrar) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.registrations)
}

func testDetectionConfig() *config.Config {
	return &config.Config{
		Detection: config.DetectionSettings{
			Multipliers:        map[int]float64{2: 20, 5: 20, 24: 20, 168: 20, 720: 20},
			BaselineWindow:     5,
			RecencyWindowHours: 2,
		},
	}
}
