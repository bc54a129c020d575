package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Comment pages are capped so a viral video cannot turn one recommendation
// request into hundreds of API calls.
const maxCommentPages = 5

// FetchComments returns the plain-text top-level comments of a video,
// following pagination up to the page cap.
func (c *Client) FetchComments(ctx context.Context, videoID string) ([]string, error) {
	var comments []string
	pageToken := ""

	for page := 0; page < maxCommentPages; page++ {
		endpoint := fmt.Sprintf("%s/commentThreads?part=snippet&textFormat=plainText&maxResults=100&videoId=%s&key=%s",
			c.apiURL, url.QueryEscape(videoID), url.QueryEscape(c.apiKey))
		if pageToken != "" {
			endpoint += "&pageToken=" + url.QueryEscape(pageToken)
		}

		data, err := c.fetch(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		var response commentThreadsResponse
		if err := json.Unmarshal(data, &response); err != nil {
			return nil, fmt.Errorf("failed to decode comment threads: %w", err)
		}

		for _, item := range response.Items {
			text := item.Snippet.TopLevelComment.Snippet.TextDisplay
			if text != "" {
				comments = append(comments, text)
			}
		}

		if response.NextPageToken == "" {
			break
		}
		pageToken = response.NextPageToken
	}

	return comments, nil
}
