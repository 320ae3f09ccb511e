package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/planora/planora/internal/auth"
	"github.com/planora/planora/internal/logging"
)

// ownerKey is the gin context key holding the authenticated owner id.
const ownerKey = "owner_id"

// Authenticate parses the Bearer token and stores the owner id in the
// request context. Requests without a valid token are rejected before
// any handler runs.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		ownerID, err := auth.OwnerFromToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ownerKey, ownerID)
		c.Next()
	}
}

// Owner returns the authenticated owner id set by Authenticate.
func Owner(c *gin.Context) uuid.UUID {
	return c.MustGet(ownerKey).(uuid.UUID)
}

// RequestLogger logs one structured line per request.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
