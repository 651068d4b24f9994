package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lyrebird/logger"
)

// slowRequest marks requests worth flagging in the log. Dictations are
// expected to be slow, so the bar is high.
const slowRequest = 30 * time.Second

// RequestLogger logs method, path, status and latency for every request
// except health checks. 5xx logs at error, 4xx at warn, the rest at debug.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			logger.FieldStatus, status,
			logger.FieldDuration, latency.Milliseconds(),
			"client", c.ClientIP(),
		)
		if latency > slowRequest {
			fields["slow"] = true
		}

		reqLog := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			reqLog.Error("Request completed", fields)
		case status >= 400:
			reqLog.Warn("Request completed", fields)
		default:
			reqLog.Debug("Request completed", fields)
		}
	}
}
