package youtube

import (
	"time"
)

// VideoEntry is one entry of a channel's recent-uploads feed
type VideoEntry struct {
	ID          string
	Title       string
	PublishedAt time.Time
}

// Metrics is a point-in-time snapshot of a video's counters
type Metrics struct {
	Views    int64
	Likes    int64
	Comments int64
}

type videoListResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type commentThreadsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					TextDisplay string `json:"textDisplay"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}
