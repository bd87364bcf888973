package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/govscout/govscout/src/models"
)

// writeError maps the core error taxonomy onto HTTP statuses. Upstream
// statuses are preserved; anything unrecognized is reported as a bad
// gateway rather than crashing the request.
func writeError(c *gin.Context, err error) {
	var validation *models.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		return
	}

	var limited *models.RateLimitedError
	if errors.As(err, &limited) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":               limited.Error(),
			"retry_after_seconds": int(limited.RetryAfter.Seconds()),
		})
		return
	}

	var provider *models.ProviderError
	if errors.As(err, &provider) {
		status := provider.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": provider.Error(), "provider": provider.Provider})
		return
	}

	var upstream *models.UpstreamError
	if errors.As(err, &upstream) {
		status := upstream.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": upstream.Error(), "source": upstream.Source})
		return
	}

	// Transport failures and anything else.
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
