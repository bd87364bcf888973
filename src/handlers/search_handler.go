package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/govscout/govscout/src/middleware"
	"github.com/govscout/govscout/src/models"
)

// SearchRunner runs one opportunity search cycle.
type SearchRunner interface {
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error)
}

type SearchHandler struct {
	orchestrator SearchRunner
	samAPIKey    string
}

func NewSearchHandler(orchestrator SearchRunner, samAPIKey string) *SearchHandler {
	return &SearchHandler{
		orchestrator: orchestrator,
		samAPIKey:    samAPIKey,
	}
}

func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Fall back to the server-side key when the caller does not supply one.
	if req.SAMAPIKey == "" {
		req.SAMAPIKey = h.samAPIKey
	}
	req.CallerIdentity = middleware.IdentityFrom(c)

	result, err := h.orchestrator.Search(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
