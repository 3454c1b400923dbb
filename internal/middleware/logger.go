package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"gymora/api/internal/models"
)

// Logger emits one line per request. When the auth middleware has resolved a
// member the line carries their id, so gym activity (check-ins, purchases,
// chat) can be traced per account.
func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", latency).
			Str("request_id", c.Writer.Header().Get(requestIDHeader))

		if userVal, ok := c.Get(CurrentUserKey); ok {
			if user, ok := userVal.(models.User); ok {
				event.Str("user_id", user.ID).Str("role", string(user.Role))
			}
		}

		event.Msg("http request")
	}
}
