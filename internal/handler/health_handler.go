package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// SessionCounter reports open purchase sessions.
type SessionCounter interface {
	ActiveSessions() int
}

// Pinger checks a dependency's connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	sessions SessionCounter
	redis    Pinger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when the
// publisher is disabled.
func NewHealthHandler(sessions SessionCounter, redis Pinger) *HealthHandler {
	return &HealthHandler{sessions: sessions, redis: redis}
}

// GetHealth responds with service and Redis status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	redisStatus := "disabled"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		redisStatus = "connected"
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "disconnected"
		}
	}

	respondOK(c, "Service is healthy", gin.H{
		"status":         "healthy",
		"version":        "1.0.0",
		"uptime":         int(time.Since(startTime).Seconds()),
		"activeSessions": h.sessions.ActiveSessions(),
		"redis": gin.H{
			"status": redisStatus,
		},
	})
}
