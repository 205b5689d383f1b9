package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/moodly-backend/internal/http/response"
	"github.com/yungbote/moodly-backend/internal/modules/insights"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/services"
)

type MoodHandler struct {
	catalogs services.MoodCatalogService
}

func NewMoodHandler(catalogs services.MoodCatalogService) *MoodHandler {
	return &MoodHandler{catalogs: catalogs}
}

// GET /moods
func (h *MoodHandler) List(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	catalog, err := h.catalogs.Catalog(dbctx.Context{Ctx: c.Request.Context()}, userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"moods": catalog.Definitions()})
}

// POST /moods
// body: { "emoji": "🤩", "label": "Excited", "color_tag": "bg-pink-100 border-pink-200" }
func (h *MoodHandler) Add(c *gin.Context) {
	var req insights.MoodDefinition
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	def, err := h.catalogs.AddCustomMood(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"mood": def})
}

// DELETE /moods/:label
func (h *MoodHandler) Remove(c *gin.Context) {
	if err := h.catalogs.RemoveCustomMood(c.Request.Context(), c.Param("label")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
