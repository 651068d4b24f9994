package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lyrebird/component"
)

// HealthChecker returns health for the registered components.
type HealthChecker func(ctx context.Context) []component.Health

// ComponentStatus is one entry under "components".
type ComponentStatus struct {
	Status  component.HealthStatus `json:"status"`
	Message string                 `json:"message,omitempty"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
}

// Health reports "ok" when every component is healthy, "degraded" when any
// is degraded and "unhealthy" (503) when any is down.
func Health(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{Status: "ok", Components: map[string]ComponentStatus{}}
		if checker != nil {
			for _, h := range checker(c.Request.Context()) {
				resp.Components[h.Name] = ComponentStatus{Status: h.Status, Message: h.Message}
				switch h.Status {
				case component.StatusUnhealthy:
					resp.Status = "unhealthy"
				case component.StatusDegraded:
					if resp.Status == "ok" {
						resp.Status = "degraded"
					}
				}
			}
		}

		code := http.StatusOK
		if resp.Status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}
