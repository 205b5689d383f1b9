package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/moodly-backend/internal/http/response"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/services"
)

type InsightsHandler struct {
	insights services.InsightsService
	now      func() time.Time
}

func NewInsightsHandler(insightsService services.InsightsService) *InsightsHandler {
	return &InsightsHandler{insights: insightsService, now: time.Now}
}

// GET /insights?tz=Area/City
func (h *InsightsHandler) Summary(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	loc := requestLocation(c)
	sum, err := h.insights.Summary(dbctx.Context{Ctx: c.Request.Context()}, userID, h.now().In(loc))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": sum, "timezone": loc.String()})
}
