package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lyrebird/util"
)

const defaultMaxBodySize = 12 * 1024 * 1024

// BodySizeLimit caps request bodies at maxSize ("12MB", "512KB"). Reads
// past the cap fail with *http.MaxBytesError, which handlers map to 413.
func BodySizeLimit(maxSize string) gin.HandlerFunc {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, size)
		}
		c.Next()
	}
}
