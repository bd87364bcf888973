package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/govscout/govscout/src/models"
)

// DocumentEmbedder chunks and embeds uploaded document text.
type DocumentEmbedder interface {
	EmbedDocument(ctx context.Context, req *models.EmbedDocumentRequest) (*models.EmbedDocumentResponse, error)
}

type DocumentHandler struct {
	service DocumentEmbedder
}

func NewDocumentHandler(service DocumentEmbedder) *DocumentHandler {
	return &DocumentHandler{service: service}
}

func (h *DocumentHandler) HandleEmbedDocument(c *gin.Context) {
	var req models.EmbedDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.EmbedDocument(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
