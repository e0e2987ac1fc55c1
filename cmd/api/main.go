package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/promptstash/backend/internal/api"
	"github.com/promptstash/backend/internal/config"
	"github.com/promptstash/backend/internal/logger"
	"github.com/promptstash/backend/internal/repository"
	"github.com/promptstash/backend/internal/service"
	"github.com/promptstash/backend/internal/source"
	"github.com/promptstash/backend/internal/source/reddit"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

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

	// Initialize services
	harvestService := service.NewHarvestService(promptRepo, feeds, cfg.Harvest.ItemLimit)

	categorizerService := service.NewCategorizerService(&service.CategorizerConfig{
		Model:   cfg.AI.Model,
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
	})
	if categorizerService.IsEnabled() {
		appLogger.WithField("model", cfg.AI.Model).Info("AI categorization enabled")
	} else {
		appLogger.Info("AI categorization disabled, using rule-based fallback")
	}

	// Start the weekly harvest schedule
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()

	scheduler := service.NewScheduler(harvestService, appLogger)
	scheduler.Start(schedulerCtx)

	// Setup router
	router := api.SetupRouter(scheduler, harvestService, categorizerService, promptRepo, cfg, appLogger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancelScheduler()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
