package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthController serves liveness information and the root greeting
type HealthController struct {
	db      Pinger
	service string
	log     logrus.FieldLogger
}

// NewHealthController creates a HealthController checking db on every call
func NewHealthController(db Pinger, service string, log logrus.FieldLogger) *HealthController {
	return &HealthController{db: db, service: service, log: log}
}

// Health godoc
// @Summary Health check
// @Description Check if the service and its database are reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthController) Health(c *gin.Context) {
	status, code := "healthy", http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		h.log.WithError(err).Error("Database ping failed")
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   h.service,
	})
}

// Greeting godoc
// @Summary Greeting
// @Tags health
// @Produce plain
// @Success 200 {string} string "Hello World!"
// @Router / [get]
func (h *HealthController) Greeting(c *gin.Context) {
	c.String(http.StatusOK, "Hello World!")
}
