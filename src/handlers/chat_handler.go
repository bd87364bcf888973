package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/govscout/govscout/src/middleware"
	"github.com/govscout/govscout/src/models"
)

type ChatHandler struct {
	gateway models.ChatCompleter
}

func NewChatHandler(gateway models.ChatCompleter) *ChatHandler {
	return &ChatHandler{gateway: gateway}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Some callers send a combined "provider:model" string instead of
	// separate fields; both encodings are accepted.
	if req.Provider == "" {
		if provider, model, ok := strings.Cut(req.Model, ":"); ok {
			req.Provider = provider
			req.Model = model
		}
	}

	req.CallerIdentity = middleware.IdentityFrom(c)

	resp, err := h.gateway.Complete(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}
