// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 2 * time.Second

// Check pings one dependency. A nil error means healthy.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Health returns the /healthz handler. GET answers {"status":"ok"} when every check
// passes and 503 otherwise; HEAD answers the status only; OPTIONS answers 204.
func Health(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		failed := runChecks(c.Request.Context(), checks)
		status := http.StatusOK
		if len(failed) > 0 {
			status = http.StatusServiceUnavailable
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}
		if len(failed) > 0 {
			c.JSON(status, gin.H{"status": "unavailable", "checks": failed})
			return
		}
		c.JSON(status, gin.H{"status": "ok"})
	}
}

func runChecks(ctx context.Context, checks []Check) map[string]string {
	failed := map[string]string{}
	for _, chk := range checks {
		if chk.Ping == nil {
			continue
		}
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := chk.Ping(cctx)
		cancel()
		if err != nil {
			slog.Warn("health check failed", "check", chk.Name, "error", err)
			failed[chk.Name] = "unavailable"
		}
	}
	return failed
}
