package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sql.DB and by the redis client wrapper.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// PingContext calls f(ctx).
func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// SystemHandler serves the index greeting and the health check.
type SystemHandler struct {
	service string
	checks  map[string]Pinger
	log     *zap.Logger
}

// NewSystemHandler creates a SystemHandler. Each named check is pinged by Health.
func NewSystemHandler(service string, checks map[string]Pinger, log *zap.Logger) *SystemHandler {
	return &SystemHandler{service: service, checks: checks, log: log}
}

// Index handles GET /api
func (h *SystemHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Hello from %s!", h.service)})
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(gin.H, len(h.checks))
	for name, p := range h.checks {
		if err := p.PingContext(ctx); err != nil {
			h.log.Warn("health check failed", zap.String("component", name), zap.Error(err))
			components[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":     state,
		"service":    h.service,
		"components": components,
	})
}
