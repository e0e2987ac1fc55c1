package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/promptstash/backend/internal/domain"
	"github.com/promptstash/backend/internal/logger"
	"github.com/promptstash/backend/internal/repository"
	"github.com/promptstash/backend/internal/service"
)

// HarvestHandler exposes the harvest pipeline over HTTP: status inspection
// and manual pass triggers.
type HarvestHandler struct {
	scheduler *service.Scheduler
	harvest   *service.HarvestService
	repo      *repository.PromptRepository
	logger    *logger.Logger
}

// NewHarvestHandler creates a new harvest handler.
// Parameters:
//   - scheduler: scheduler owning the run token and schedule state.
//   - harvest: pipeline orchestrator (for feed enumeration).
//   - repo: prompt repository (for stored counts).
//   - log: logger instance.
// Returns:
//   - *HarvestHandler: initialized handler.
func NewHarvestHandler(scheduler *service.Scheduler, harvest *service.HarvestService, repo *repository.PromptRepository, log *logger.Logger) *HarvestHandler {
	return &HarvestHandler{
		scheduler: scheduler,
		harvest:   harvest,
		repo:      repo,
		logger:    log,
	}
}

// latestStatusLimit bounds the recent-prompt preview on the status surface.
const latestStatusLimit = 5

// HarvestStatusResponse represents the harvest status.
type HarvestStatusResponse struct {
	service.ScheduleState
	Feeds         []string        `json:"feeds"`
	StoredPrompts int64           `json:"stored_prompts"`
	Latest        []domain.Prompt `json:"latest,omitempty"`
}

// TriggerResponse represents the response to a manual trigger.
type TriggerResponse struct {
	Message string   `json:"message"`
	Feeds   []string `json:"feeds"`
}

// GetStatus returns the scheduler state and stored prompt count.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *HarvestHandler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.repo.Count(ctx)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to count stored prompts: error=%v", err)
		// Status stays useful without the count
		count = 0
	}

	latest, err := h.repo.Latest(ctx, latestStatusLimit)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to load latest prompts: error=%v", err)
	}

	resp := HarvestStatusResponse{
		ScheduleState: h.scheduler.Status(),
		Feeds:         h.harvest.FeedNames(),
		StoredPrompts: count,
		Latest:        latest,
	}

	logger.CtxDebug(ctx, "Harvest status requested: client_ip=%s, is_running=%v", c.ClientIP(), resp.IsRunning)
	c.JSON(http.StatusOK, resp)
}

// TriggerRunAll starts a detached pass over all configured feeds.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response; 202 on acceptance, 409 when a pass
//   is already in flight).
func (h *HarvestHandler) TriggerRunAll(c *gin.Context) {
	ctx := c.Request.Context()

	logger.CtxInfo(ctx, "Received harvest trigger: client_ip=%s", c.ClientIP())

	if err := h.scheduler.TriggerManual(""); err != nil {
		h.rejectTrigger(c, err)
		return
	}

	c.JSON(http.StatusAccepted, TriggerResponse{
		Message: "Harvest pass started",
		Feeds:   h.harvest.FeedNames(),
	})
}

// TriggerRunFeed starts a detached pass over a single feed.
// Parameters:
//   - c: Gin request context (":feed" path parameter).
// Returns: none (writes JSON response; 202 on acceptance, 400 for an
//   unknown feed, 409 when a pass is already in flight).
func (h *HarvestHandler) TriggerRunFeed(c *gin.Context) {
	ctx := c.Request.Context()
	feed := c.Param("feed")

	logger.CtxInfo(ctx, "Received single-feed harvest trigger: feed=%s, client_ip=%s", feed, c.ClientIP())

	if err := h.scheduler.TriggerManual(feed); err != nil {
		h.rejectTrigger(c, err)
		return
	}

	c.JSON(http.StatusAccepted, TriggerResponse{
		Message: "Harvest pass started",
		Feeds:   []string{feed},
	})
}

func (h *HarvestHandler) rejectTrigger(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, service.ErrRunInProgress):
		logger.CtxWarn(ctx, "Harvest trigger rejected: already running, client_ip=%s", c.ClientIP())
		c.JSON(http.StatusConflict, gin.H{"error": "A harvest pass is already running"})
	case errors.Is(err, service.ErrUnknownFeed):
		logger.CtxWarn(ctx, "Unknown feed requested: error=%v, client_ip=%s", err, c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.CtxError(ctx, "Harvest trigger failed: error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
