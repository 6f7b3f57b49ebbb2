package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// Middleware resolves the caller's session from the X-Wallet header and
// stores it in the Gin context. Requests without the header proceed
// unauthenticated; role checks happen in the services.
func Middleware(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		wallet := strings.TrimSpace(c.GetHeader("X-Wallet"))
		if wallet != "" {
			session, err := service.SessionFor(c.Request.Context(), wallet)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "Failed to resolve session",
				})
				return
			}
			c.Set(sessionContextKey, session)
		}
		c.Next()
	}
}

// SessionFromContext returns the caller's session, or nil when the request
// is unauthenticated.
func SessionFromContext(c *gin.Context) *Session {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}
	session, ok := value.(*Session)
	if !ok {
		return nil
	}
	return session
}
