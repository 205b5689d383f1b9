package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/moodly-backend/internal/http/response"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/services"
)

type EntryHandler struct {
	entries services.EntryService
	share   services.ShareService
}

func NewEntryHandler(entries services.EntryService, share services.ShareService) *EntryHandler {
	return &EntryHandler{entries: entries, share: share}
}

// GET /entries
func (h *EntryHandler) List(c *gin.Context) {
	entries, err := h.entries.List(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}

// POST /entries
// body: { "mood_label": "Happy", "note": "..." }
func (h *EntryHandler) Create(c *gin.Context) {
	var req struct {
		MoodLabel string `json:"mood_label"`
		Note      string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := h.entries.Create(c.Request.Context(), services.CreateEntryInput{
		MoodLabel: req.MoodLabel,
		Note:      req.Note,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"entry": entry})
}

// DELETE /entries/:id
func (h *EntryHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.entries.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /entries/:id/share
func (h *EntryHandler) ShareText(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	text, err := h.share.Text(dbctx.Context{Ctx: c.Request.Context()}, id, requestLocation(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"text": text})
}

// GET /entries/:id/share-card.png
func (h *EntryHandler) ShareCard(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	png, err := h.share.Card(dbctx.Context{Ctx: c.Request.Context()}, id, requestLocation(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", png)
}
