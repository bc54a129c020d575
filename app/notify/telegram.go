package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTelegramAPI = "https://api.telegram.org"

var _ Notifier = (*TelegramNotifier)(nil)

// TelegramNotifier delivers alerts via the Bot API sendMessage call
type TelegramNotifier struct {
	httpClient *http.Client
	apiURL     string
	token      string
	chatID     string
	timeout    time.Duration
}

func NewTelegramNotifier(token, chatID string, timeout time.Duration) *TelegramNotifier {
	return &TelegramNotifier{
		httpClient: &http.Client{},
		apiURL:     defaultTelegramAPI,
		token:      token,
		chatID:     chatID,
		timeout:    timeout,
	}
}

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.token)
	req, err := http.NewRequestWithContext(timeoutCtx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API error: HTTP %d %s", resp.StatusCode, string(body))
	}

	return nil
}
