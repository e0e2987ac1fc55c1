package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/promptstash/backend/internal/logger"
	"github.com/promptstash/backend/internal/service"
)

// CategorizeHandler handles on-demand prompt categorization.
type CategorizeHandler struct {
	categorizer *service.CategorizerService
	logger      *logger.Logger
}

// NewCategorizeHandler creates a new categorize handler.
// Parameters:
//   - categorizer: categorizer service instance.
//   - log: logger instance.
// Returns:
//   - *CategorizeHandler: initialized handler.
func NewCategorizeHandler(categorizer *service.CategorizerService, log *logger.Logger) *CategorizeHandler {
	return &CategorizeHandler{
		categorizer: categorizer,
		logger:      log,
	}
}

// CategorizeRequest represents the categorize API request.
type CategorizeRequest struct {
	Content string `json:"content" binding:"required"`
	Title   string `json:"title"`
}

// Categorize classifies a prompt into a category with suggested tags.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *CategorizeHandler) Categorize(c *gin.Context) {
	ctx := c.Request.Context()

	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.CtxWarn(ctx, "Invalid categorize request: client_ip=%s, error=%v", c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.categorizer.Categorize(ctx, req.Content, req.Title)

	logger.CtxInfo(ctx, "Categorized prompt: category=%s, source=%s, confidence=%.2f",
		result.Category, result.Source, result.Confidence)

	c.JSON(http.StatusOK, result)
}
