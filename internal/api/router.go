package api

import (
	"github.com/gin-gonic/gin"
	"github.com/promptstash/backend/internal/api/handler"
	"github.com/promptstash/backend/internal/api/middleware"
	"github.com/promptstash/backend/internal/config"
	"github.com/promptstash/backend/internal/logger"
	"github.com/promptstash/backend/internal/repository"
	"github.com/promptstash/backend/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	scheduler *service.Scheduler,
	harvestService *service.HarvestService,
	categorizerService *service.CategorizerService,
	promptRepo *repository.PromptRepository,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(cfg.Server.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	harvestHandler := handler.NewHarvestHandler(scheduler, harvestService, promptRepo, log)
	categorizeHandler := handler.NewCategorizeHandler(categorizerService, log)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Harvest pipeline
		v1.GET("/harvest/status", harvestHandler.GetStatus)
		v1.POST("/harvest/run", harvestHandler.TriggerRunAll)
		v1.POST("/harvest/run/:feed", harvestHandler.TriggerRunFeed)

		// Categorization
		v1.POST("/categorize", categorizeHandler.Categorize)
	}

	return r
}
