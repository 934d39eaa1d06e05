package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/sse"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

// SSEHandler streams built transactions as Server-Sent Events.
type SSEHandler struct {
	hub       *sse.Hub
	heartbeat time.Duration
}

func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub, heartbeat: 30 * time.Second}
}

// Stream handles GET /v1/transactions/stream. The optional service query
// parameter narrows the stream, e.g. ?service=data,tv.
func (h *SSEHandler) Stream(c *gin.Context) {
	services, ok := parseServiceFilter(c.Query("service"))
	if !ok {
		utils.Error(c, http.StatusBadRequest, utils.ErrUnknownService.Error(), "Unknown service in stream filter")
		return
	}

	subscriberID := "stream-" + uuid.NewString()[:8]
	sub := h.hub.Subscribe(subscriberID, services...)
	defer h.hub.Unsubscribe(subscriberID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("connected", gin.H{
		"subscriberId": subscriberID,
		"services":     services,
		"timestamp":    utils.NowISO(),
	})
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case data, open := <-sub.Events:
			if !open {
				return false
			}
			c.SSEvent(string(sse.EventTransactionBuilt), string(data))
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", gin.H{"timestamp": utils.NowISO()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	log.Debug().Str("subscriber_id", subscriberID).Int64("dropped", sub.Dropped()).Msg("Transaction stream closed")
}

// parseServiceFilter reads a comma separated service list. Empty input
// follows every service.
func parseServiceFilter(raw string) ([]models.Service, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	var services []models.Service
	for _, part := range strings.Split(raw, ",") {
		s, ok := models.ParseService(part)
		if !ok {
			return nil, false
		}
		services = append(services, s)
	}
	return services, true
}
