package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-inspector/internal/shared/server/respond"
)

const (
	// SessionHeader carries the anonymous browser session.
	SessionHeader = "X-Guest-Id"

	sessionIDKey  = "sessionId"
	maxSessionLen = 128
)

// Session requires the guest header and stores the session ID in context.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		guestID := strings.TrimSpace(c.GetHeader(SessionHeader))
		if guestID == "" || len(guestID) > maxSessionLen {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(sessionIDKey, "guest:"+guestID)
		c.Next()
	}
}

// SessionIDFromContext fetches the session ID set by the session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
