package handler

import (
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/znlumins/webkalenderaihmpsti/internal/service"
	"github.com/znlumins/webkalenderaihmpsti/pkg/realtime"
)

const defaultHeartbeat = 25 * time.Second

type changeSubscriber interface {
	Subscribe() (<-chan realtime.Change, func())
}

// StreamHandler pushes row-change notifications over server-sent events.
type StreamHandler struct {
	hub       changeSubscriber
	metrics   *service.MetricsService
	heartbeat time.Duration
}

// NewStreamHandler constructs a StreamHandler.
func NewStreamHandler(hub changeSubscriber, metrics *service.MetricsService, heartbeat time.Duration) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &StreamHandler{hub: hub, metrics: metrics, heartbeat: heartbeat}
}

// Events godoc
// @Summary Change notifications
// @Description Server-sent events named "change" carrying {table, action, id, at}. Clients refetch on receipt.
// @Tags Events
// @Produce text/event-stream
// @Param table query string false "Only changes of this table (events or prokers)"
// @Success 200 {string} string "event stream"
// @Router /events/stream [get]
func (h *StreamHandler) Events(c *gin.Context) {
	table := strings.TrimSpace(c.Query("table"))
	changes, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	h.metrics.StreamConnected(1)
	defer h.metrics.StreamConnected(-1)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.SSEvent("ready", gin.H{"at": time.Now().UTC()})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case change, ok := <-changes:
			if !ok {
				return false
			}
			if table != "" && change.Table != table {
				return true
			}
			c.SSEvent("change", change)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		}
	})
}
