package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const CallerIdentityKey = "caller_identity"

// CallerIdentity derives the rate-limiting identity for a request: the first
// hop of X-Forwarded-For when present, else the direct client address, else
// the shared "unknown" bucket.
func CallerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := ""
		if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
			identity = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
		if identity == "" {
			identity = c.ClientIP()
		}
		if identity == "" {
			identity = "unknown"
		}
		c.Set(CallerIdentityKey, identity)
		c.Next()
	}
}

// IdentityFrom reads the derived identity off the request context.
func IdentityFrom(c *gin.Context) string {
	if identity, ok := c.Get(CallerIdentityKey); ok {
		if s, ok := identity.(string); ok && s != "" {
			return s
		}
	}
	return "unknown"
}
