package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	defaultFeedURL = "https://www.youtube.com/feeds/videos.xml"
	defaultAPIURL  = "https://www.googleapis.com/youtube/v3"
)

// Client fetches channel uploads and video statistics from YouTube.
// Recent uploads come from the public Atom feed; statistics and comments
// come from the Data API v3.
type Client struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	apiKey     string
	userAgent  string
	feedURL    string
	apiURL     string
	maxEntries int
	timeout    time.Duration
}

func NewClient(apiKey, userAgent string, timeout time.Duration, maxEntries int) *Client {
	return &Client{
		httpClient: &http.Client{},
		parser:     gofeed.NewParser(),
		apiKey:     apiKey,
		userAgent:  userAgent,
		feedURL:    defaultFeedURL,
		apiURL:     defaultAPIURL,
		maxEntries: maxEntries,
		timeout:    timeout,
	}
}

// FetchRecentVideos enumerates the channel's most recent uploads,
// newest first, capped at the configured entry limit.
func (c *Client) FetchRecentVideos(ctx context.Context, channelID string) ([]VideoEntry, error) {
	feedURL := fmt.Sprintf("%s?channel_id=%s", c.feedURL, url.QueryEscape(channelID))

	data, err := c.fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := c.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel feed: %w", err)
	}

	entries := make([]VideoEntry, 0, c.maxEntries)
	for _, item := range feed.Items {
		if len(entries) >= c.maxEntries {
			break
		}

		entry := VideoEntry{
			ID:    videoIDFromItem(item),
			Title: item.Title,
		}
		if entry.ID == "" {
			continue
		}
		if item.PublishedParsed != nil {
			entry.PublishedAt = item.PublishedParsed.UTC()
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// FetchMetrics retrieves the current statistics snapshot for one video
func (c *Client) FetchMetrics(ctx context.Context, videoID string) (*Metrics, error) {
	endpoint := fmt.Sprintf("%s/videos?part=statistics&id=%s&key=%s",
		c.apiURL, url.QueryEscape(videoID), url.QueryEscape(c.apiKey))

	data, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response videoListResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to decode video statistics: %w", err)
	}

	if len(response.Items) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
	}

	stats := response.Items[0].Statistics
	return &Metrics{
		Views:    parseCount(stats.ViewCount),
		Likes:    parseCount(stats.LikeCount),
		Comments: parseCount(stats.CommentCount),
	}, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: HTTP 404", ErrNotFound)
	default:
		return nil, fmt.Errorf("%w: HTTP %d %s", ErrUnavailable, resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return data, nil
}

// videoIDFromItem extracts the video id from a feed entry. YouTube's Atom
// feed carries it both in the yt:videoId extension and in the entry id
// ("yt:video:<id>").
func videoIDFromItem(item *gofeed.Item) string {
	if ext, ok := item.Extensions["yt"]; ok {
		if ids, ok := ext["videoId"]; ok && len(ids) > 0 {
			return ids[0].Value
		}
	}
	if strings.HasPrefix(item.GUID, "yt:video:") {
		return strings.TrimPrefix(item.GUID, "yt:video:")
	}
	return ""
}

func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
