package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	version string
	commit  string
}

func NewHealthController(version, commit string) *HealthController {
	return &HealthController{version: version, commit: commit}
}

// Health reports liveness and build metadata.
// GET /health
func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": hc.version,
		"commit":  hc.commit,
	})
}

// Ping is a bare liveness probe.
// GET /ping
func (hc *HealthController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
