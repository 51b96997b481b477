package api_gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether one backing store is reachable
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// healthHandler answers 200 while every check passes and 503 otherwise.
// Without checks it only reports that the process is up.
func healthHandler(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		deps := make(map[string]string, len(checks))
		for _, check := range checks {
			if err := check.Ping(ctx); err != nil {
				deps[check.Name] = err.Error()
				status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			deps[check.Name] = "ok"
		}

		body := gin.H{"status": status, "timestamp": time.Now().UTC()}
		if len(deps) > 0 {
			body["dependencies"] = deps
		}
		c.JSON(code, body)
	}
}
