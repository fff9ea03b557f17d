package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const heartbeatInterval = 30 * time.Second

// notifications держит SSE-поток уведомлений текущего пользователя
func (h *Handler) notifications(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ch, cancel := h.Notifier.Subscribe(userID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	h.logger.Debug("notifications stream opened", zap.Uint("user_id", userID))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("notifications stream closed", zap.Uint("user_id", userID))
			return
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			c.Writer.Flush()
		case n, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent(string(n.Kind), n)
			c.Writer.Flush()
		}
	}
}
