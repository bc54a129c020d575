package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"trendwatch/app/config"
	"trendwatch/app/database"
	"trendwatch/app/youtube"
)

func TestPollChannelTaskDiscoversRecentVideos(t *testing.T) {
	now := time.Now().UTC()
	source := &mockSource{
		entries: []youtube.VideoEntry{
			{ID: "video-new", Title: "Fresh upload", PublishedAt: now.Add(-30 * time.Minute)},
			{ID: "video-old", Title: "Last week", PublishedAt: now.Add(-72 * time.Hour)},
		},
	}
	videoRepo := newMockVideoRepo()
	registrar := &mockRegistrar{}

	task := NewPollChannelTask(database.Channel{ID: "channel-1"}, source, videoRepo, registrar, testDetectionConfig())
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if _, exists := videoRepo.videos["video-new"]; !exists {
		t.Error("Expected recent video to be persisted")
	}
	if _, exists := videoRepo.videos["video-old"]; exists {
		t.Error("Expected video outside the recency window to be ignored")
	}

	if registrar.count() != 1 {
		t.Fatalf("Expected 1 stage registration, got %d", registrar.count())
	}
	reg := registrar.registrations[0]
	if reg.videoID != "video-new" || reg.channelID != "channel-1" {
		t.Errorf("Expected registration for video-new on channel-1, got %+v", reg)
	}
	if len(reg.offsets) != len(config.CheckOffsets) {
		t.Errorf("Expected %d offsets registered, got %d", len(config.CheckOffsets), len(reg.offsets))
	}
}

func TestPollChannelTaskSkipsKnownVideos(t *testing.T) {
	now := time.Now().UTC()
	source := &mockSource{
		entries: []youtube.VideoEntry{
			{ID: "video-1", Title: "Already seen", PublishedAt: now.Add(-30 * time.Minute)},
		},
	}
	videoRepo := newMockVideoRepo()
	videoRepo.videos["video-1"] = database.Video{ID: "video-1", ChannelID: "channel-1"}
	registrar := &mockRegistrar{}

	task := NewPollChannelTask(database.Channel{ID: "channel-1"}, source, videoRepo, registrar, testDetectionConfig())
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if registrar.count() != 0 {
		t.Errorf("Expected no stage registrations for a known video, got %d", registrar.count())
	}
}

func TestPollChannelTaskSourceError(t *testing.T) {
	source := &mockSource{entriesErr: youtube.ErrUnavailable}
	videoRepo := newMockVideoRepo()
	registrar := &mockRegistrar{}

	task := NewPollChannelTask(database.Channel{ID: "channel-1"}, source, videoRepo, registrar, testDetectionConfig())
	err := task.Execute(context.Background())
	if err == nil {
		t.Fatal("Expected error when source is unavailable")
	}
	if !errors.Is(err, youtube.ErrUnavailable) {
		t.Errorf("Expected wrapped ErrUnavailable, got %v", err)
	}
}

func TestPollChannelTaskContinuesAfterInsertError(t *testing.T) {
	now := time.Now().UTC()
	source := &mockSource{
		entries: []youtube.VideoEntry{
			{ID: "video-broken", Title: "First", PublishedAt: now.Add(-20 * time.Minute)},
			{ID: "video-fine", Title: "Second", PublishedAt: now.Add(-10 * time.Minute)},
		},
	}
	videoRepo := newMockVideoRepo()
	videoRepo.insertErr = map[string]error{"video-broken": errors.New("disk full")}
	registrar := &mockRegistrar{}

	task := NewPollChannelTask(database.Channel{ID: "channel-1"}, source, videoRepo, registrar, testDetectionConfig())
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if registrar.count() != 1 {
		t.Fatalf("Expected 1 registration despite insert failure, got %d", registrar.count())
	}
	if registrar.registrations[0].videoID != "video-fine" {
		t.Errorf("Expected video-fine to be registered, got %s", registrar.registrations[0].videoID)
	}
}
