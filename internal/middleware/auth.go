package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gymora/api/internal/config"
	"gymora/api/internal/service"
)

const CurrentUserKey = "current_user"

// Auth resolves the session cookie (or a Bearer header for API clients) to
// the owning user. Absent, expired, or revoked sessions all read the same:
// 401, fail closed.
func Auth(cfg *config.AppConfig, auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cfg.Security.SessionCookie)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := auth.ResolveSession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set("session_token", token)
		c.Set(CurrentUserKey, *user)

		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
