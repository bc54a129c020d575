package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trendwatch/app/database"
	"trendwatch/app/recommend"
	"trendwatch/app/tasks"
)

func NewHandler(source tasks.MetricSource, channelRepo database.ChannelRepository,
	videoRepo database.VideoRepository, metricRepo database.MetricRepository,
	trendingRepo database.TrendingRepository, scheduler tasks.SchedulerInterface,
	recommender RecommenderInterface, pollInterval time.Duration) *Handler {
	return &Handler{
		source:       source,
		channelRepo:  channelRepo,
		videoRepo:    videoRepo,
		metricRepo:   metricRepo,
		trendingRepo: trendingRepo,
		scheduler:    scheduler,
		recommender:  recommender,
		pollInterval: pollInterval,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"engine_running": h.scheduler.Running(),
	}

	if channelCount, err := h.channelRepo.GetChannelCount(c.Request.Context()); err == nil {
		health["channels"] = channelCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats := map[string]interface{}{
		"engine_running": h.scheduler.Running(),
		"pending_stages": len(h.scheduler.PendingStages()),
	}

	if channelCount, err := h.channelRepo.GetChannelCount(ctx); err == nil {
		stats["channels"] = channelCount
	}
	if videoCount, err := h.videoRepo.GetVideoCount(ctx); err == nil {
		stats["videos"] = videoCount
	}
	if sampleCount, err := h.metricRepo.GetSampleCount(ctx); err == nil {
		stats["samples"] = sampleCount
	}
	if trendingCount, err := h.trendingRepo.GetTrendingCount(ctx); err == nil {
		stats["trending"] = trendingCount
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListChannels(c *gin.Context) {
	channels, err := h.channelRepo.GetAllChannels(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_channels", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	list := make([]map[string]interface{}, 0, len(channels))
	for _, channel := range channels {
		list = append(list, map[string]interface{}{
			"id":         channel.ID,
			"url":        channel.URL,
			"created_at": channel.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"channels": list,
		"total":    len(list),
	})
}

type addChannelRequest struct {
	ID  string `json:"id" binding:"required"`
	URL string `json:"url"`
}

func (h *Handler) APIAddChannel(c *gin.Context) {
	var req addChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing channel id"})
		return
	}

	// Reject typoed channel ids before they poison the discovery cycle
	if _, err := h.source.FetchRecentVideos(c.Request.Context(), req.ID); err != nil {
		slog.Warn("Channel feed verification failed", "channel", req.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Channel feed is not reachable"})
		return
	}

	added, err := h.channelRepo.AddChannel(c.Request.Context(), req.ID, req.URL)
	if err != nil {
		slog.Error("Database error", "operation", "add_channel", "channel", req.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !added {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Channel is already monitored",
			"channel": req.ID,
		})
		return
	}

	slog.Info("Channel added", "channel", req.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Channel will be polled on the next discovery cycle",
		"channel": req.ID,
	})
}

func (h *Handler) APIRemoveChannel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing channel id parameter"})
		return
	}

	channel, err := h.channelRepo.GetChannel(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_channel", "channel", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if channel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Channel is not monitored"})
		return
	}

	// Pending stages go first so none fire against a vanishing channel
	h.scheduler.CancelChannelStages(id)

	if err := h.channelRepo.RemoveChannel(c.Request.Context(), id); err != nil {
		slog.Error("Database error", "operation", "remove_channel", "channel", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	slog.Info("Channel removed", "channel", id)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Channel and its tracked videos removed",
		"channel": id,
	})
}

func (h *Handler) APIListStages(c *gin.Context) {
	stages := h.scheduler.PendingStages()

	list := make([]map[string]interface{}, 0, len(stages))
	for _, stage := range stages {
		list = append(list, map[string]interface{}{
			"video_id":     stage.VideoID,
			"channel_id":   stage.ChannelID,
			"offset_hours": stage.Offset,
			"fire_at":      stage.FireAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"stages": list,
		"total":  len(list),
	})
}

func (h *Handler) APIListTrending(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	trending, err := h.trendingRepo.GetTrendingVideos(c.Request.Context(), limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_trending", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	list := make([]map[string]interface{}, 0, len(trending))
	for _, entry := range trending {
		list = append(list, map[string]interface{}{
			"video_id":    entry.VideoID,
			"channel_id":  entry.ChannelID,
			"detected_at": entry.DetectedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"trending": list,
		"total":    len(list),
	})
}

func (h *Handler) APIStartEngine(c *gin.Context) {
	if err := h.scheduler.Start(h.pollInterval); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Engine started",
	})
}

func (h *Handler) APIStopEngine(c *gin.Context) {
	if err := h.scheduler.Stop(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Engine stopped",
	})
}

func (h *Handler) APIGetRecommendation(c *gin.Context) {
	if h.recommender == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recommendations are not configured"})
		return
	}

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing video id parameter"})
		return
	}

	video, err := h.videoRepo.GetVideo(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_video", "video", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if video == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video is not tracked"})
		return
	}

	summary, err := h.recommender.Recommend(c.Request.Context(), video.ID, video.Title)
	if errors.Is(err, recommend.ErrNoComments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video has no comments to summarize"})
		return
	}
	if err != nil {
		slog.Error("Recommendation error", "video", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recommendation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"video_id":       video.ID,
		"title":          video.Title,
		"recommendation": summary,
	})
}
