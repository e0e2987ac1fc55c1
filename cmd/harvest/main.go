package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/promptstash/backend/internal/config"
	"github.com/promptstash/backend/internal/logger"
	"github.com/promptstash/backend/internal/repository"
	"github.com/promptstash/backend/internal/service"
	"github.com/promptstash/backend/internal/source"
	"github.com/promptstash/backend/internal/source/reddit"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "promptstash-harvest",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	feedName := flag.String("feed", "", "Harvest a single feed instead of all configured feeds")
	limit := flag.Int("limit", 0, "Maximum items to fetch per feed (0 uses config)")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	itemLimit := cfg.Harvest.ItemLimit
	if *limit > 0 {
		itemLimit = *limit
	}

	appLogger.WithFields(logger.Fields{
		"feeds": cfg.Harvest.Feeds,
		"limit": itemLimit,
	}).Info("Starting harvest pass")

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	promptRepo := repository.NewPromptRepository(db)

	// Initialize feed connectors in configured order
	connectorCfg := &reddit.Config{
		BaseURL:      cfg.Harvest.BaseURL,
		UserAgent:    cfg.Harvest.UserAgent,
		RequestDelay: cfg.Harvest.RequestDelay,
	}
	feeds := make([]source.Feed, 0, len(cfg.Harvest.Feeds))
	for _, name := range cfg.Harvest.Feeds {
		feeds = append(feeds, reddit.New(connectorCfg, name))
	}

	harvestService := service.NewHarvestService(promptRepo, feeds, itemLimit)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	// Run one pass
	var result *service.RunResult
	if *feedName != "" {
		result, err = harvestService.RunFeed(ctx, *feedName)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to run harvest pass")
		}
	} else {
		result = harvestService.Run(ctx)
	}

	appLogger.WithFields(logger.Fields{
		"scraped": result.Scraped,
		"saved":   result.Saved,
		"skipped": result.Skipped,
		"errors":  result.Errors,
	}).Info("Harvest pass completed")
}
