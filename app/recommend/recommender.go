package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ollama/ollama/api"
)

// ErrNoComments is returned when a video has no comments to work from
var ErrNoComments = errors.New("video has no comments")

// maxComments caps how many comments go into one prompt
const maxComments = 50

// CommentSource retrieves viewer comments for a video
type CommentSource interface {
	FetchComments(ctx context.Context, videoID string) ([]string, error)
}

type generateFunc func(ctx context.Context, req *api.GenerateRequest, fn api.GenerateResponseFunc) error

// Recommender summarizes what viewers liked about a video by running its
// comments through a local Ollama model.
type Recommender struct {
	comments CommentSource
	model    string
	generate generateFunc
}

func NewRecommender(comments CommentSource, model string) (*Recommender, error) {
	if model == "" {
		return nil, fmt.Errorf("recommendation model cannot be empty")
	}

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &Recommender{
		comments: comments,
		model:    model,
		generate: client.Generate,
	}, nil
}

// Recommend fetches the video's comments and produces a short viewer-sentiment
// summary. Returns ErrNoComments when there is nothing to summarize.
func (r *Recommender) Recommend(ctx context.Context, videoID, title string) (string, error) {
	comments, err := r.comments.FetchComments(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch comments for video %s: %w", videoID, err)
	}
	if len(comments) == 0 {
		return "", ErrNoComments
	}
	if len(comments) > maxComments {
		comments = comments[:maxComments]
	}

	req := &api.GenerateRequest{
		Model:  r.model,
		Prompt: buildPrompt(title, comments),
		Stream: new(bool),
	}

	var summary string
	respFunc := func(resp api.GenerateResponse) error {
		if resp.Done {
			summary = strings.TrimSpace(resp.Response)
		}
		return nil
	}

	if err := r.generate(ctx, req, respFunc); err != nil {
		return "", fmt.Errorf("failed to generate recommendation for video %s: %w", videoID, err)
	}

	slog.Debug("Generated recommendation", "video", videoID, "comments", len(comments))

	return summary, nil
}

func buildPrompt(title string, comments []string) string {
	var b strings.Builder
	b.WriteString("You are an analyst of audience reactions. Based on the viewer comments below, ")
	b.WriteString("write a short paragraph explaining why this video resonates with its audience ")
	b.WriteString("and who should watch it. Avoid fluff like \"This video is about.\"\n\n")
	fmt.Fprintf(&b, "Video title: %s\n\nComments:\n", title)
	for _, comment := range comments {
		fmt.Fprintf(&b, "- %s\n", comment)
	}
	b.WriteString("\nRecommendation:")
	return b.String()
}
