package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	Port            string
	APIAccessKey    string
	DetectionConfig string
	PollInterval    int
	WorkerCount     int

	// Upstream services
	YouTubeAPIKey  string
	TelegramToken  string
	TelegramChatID string
	OllamaModel    string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
