package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./trendwatch.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey    string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	DetectionConfig string `long:"detection-config" env:"DETECTION_CONFIG" default:"./detection.yml" description:"Path to the detection policy YAML file"`
	PollInterval    int    `long:"poll-interval" env:"POLL_INTERVAL" default:"60" description:"Channel poll interval in seconds"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for check processing"`

	// Upstream services
	YouTubeAPIKey  string `long:"youtube-api-key" env:"YT_API_KEY" required:"true" description:"YouTube Data API v3 key (required)"`
	TelegramToken  string `long:"telegram-token" env:"TELEGRAM_API_KEY" description:"Telegram bot token for notifications (optional)"`
	TelegramChatID string `long:"telegram-chat-id" env:"TELEGRAM_CHAT_ID" description:"Telegram chat ID notifications are sent to"`
	OllamaModel    string `long:"ollama-model" env:"OLLAMA_MODEL" description:"Ollama model for comment recommendations (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"TrendWatch/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:          raw.DBPath,
		Port:            raw.Port,
		APIAccessKey:    raw.APIAccessKey,
		DetectionConfig: raw.DetectionConfig,
		PollInterval:    raw.PollInterval,
		WorkerCount:     raw.WorkerCount,
		YouTubeAPIKey:   raw.YouTubeAPIKey,
		TelegramToken:   raw.TelegramToken,
		TelegramChatID:  raw.TelegramChatID,
		OllamaModel:     raw.OllamaModel,
		UserAgent:       raw.UserAgent,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %d", cfg.PollInterval)
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", cfg.WorkerCount)
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == "" {
		return nil, fmt.Errorf("telegram chat ID is required when a telegram token is set")
	}

	return cfg, nil
}
