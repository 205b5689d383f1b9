package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/moodly-backend/internal/http/response"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
	"github.com/yungbote/moodly-backend/internal/realtime"
	"github.com/yungbote/moodly-backend/internal/services"
)

type RealtimeHandler struct {
	log     *logger.Logger
	hub     *realtime.SSEHub
	entries services.EntryService
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, entries services.EntryService) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		entries: entries,
	}
}

// GET /sse/stream
// Sends the current snapshot first, then every newer one. Snapshots that
// arrive faster than the client reads are collapsed to the latest.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	client, err := h.entries.Subscribe(c.Request.Context(), requestLocation(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	defer h.entries.Unsubscribe(client)
	h.log.Debug("SSEStream open", "user_id", client.UserID, "client_id", client.ID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
