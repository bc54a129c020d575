package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trendwatch/app/api"
	"trendwatch/app/cfg"
	"trendwatch/app/config"
	"trendwatch/app/database"
	"trendwatch/app/notify"
	"trendwatch/app/recommend"
	"trendwatch/app/tasks"
	"trendwatch/app/trend"
	"trendwatch/app/youtube"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting TrendWatch", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		fatal("Failed to open database", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		fatal("Failed to run migrations", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	policyLoader := config.NewLoader(appCfg.DetectionConfig)
	policy, err := policyLoader.Load()
	if err != nil {
		fatal("Failed to load detection policy", err)
	}
	slog.Info("Detection policy loaded",
		"baseline_window", policy.Detection.BaselineWindow,
		"recency_window", policy.Detection.GetRecencyWindow())

	channelRepo := database.NewChannelStore(db)
	videoRepo := database.NewVideoStore(db)
	metricRepo := database.NewMetricStore(db)
	trendingRepo := database.NewTrendingStore(db)

	client := youtube.NewClient(appCfg.YouTubeAPIKey, appCfg.UserAgent,
		policy.Source.GetTimeout(), policy.Source.MaxEntries)

	var notifier notify.Notifier = notify.NoopNotifier{}
	if appCfg.TelegramToken != "" {
		notifier = notify.NewTelegramNotifier(appCfg.TelegramToken, appCfg.TelegramChatID, policy.Source.GetTimeout())
		slog.Info("Telegram notifications enabled", "chat_id", appCfg.TelegramChatID)
	} else {
		slog.Info("Telegram notifications disabled (TELEGRAM_API_KEY not set)")
	}

	baselines := trend.NewBaselineEngine(channelRepo, metricRepo, policy.Detection.BaselineWindow)
	detector, err := trend.NewDetector(channelRepo, trendingRepo, notifier, policy.Detection.Multipliers)
	if err != nil {
		fatal("Failed to initialize trend detector", err)
	}

	scheduler := tasks.NewScheduler(channelRepo, videoRepo, metricRepo, client,
		detector, baselines, policy, appCfg.WorkerCount)

	pollInterval := time.Duration(appCfg.PollInterval) * time.Second
	if err := scheduler.Start(pollInterval); err != nil {
		fatal("Failed to start engine", err)
	}
	defer scheduler.Stop()

	var recommender api.RecommenderInterface
	if appCfg.OllamaModel != "" {
		r, err := recommend.NewRecommender(client, appCfg.OllamaModel)
		if err != nil {
			fatal("Failed to initialize recommender", err)
		}
		recommender = r
		slog.Info("Recommendations enabled", "model", appCfg.OllamaModel)
	} else {
		slog.Info("Recommendations disabled (OLLAMA_MODEL not set)")
	}

	apiHandler := api.NewHandler(client, channelRepo, videoRepo, metricRepo, trendingRepo,
		scheduler, recommender, pollInterval)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Engine is stopped via defer; in-flight checks finish first
	slog.Info("Shutdown complete")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
