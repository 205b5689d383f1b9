package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/moodly-backend/internal/http/response"
	"github.com/yungbote/moodly-backend/internal/services"
)

type ReflectionHandler struct {
	reflections services.ReflectionService
}

func NewReflectionHandler(reflections services.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{reflections: reflections}
}

// GET /reflection?mood=Label
func (h *ReflectionHandler) Local(c *gin.Context) {
	r, err := h.reflections.Local(c.Query("mood"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reflection": r})
}

// POST /reflection/generate
// body: { "mood": "Sad" }
func (h *ReflectionHandler) Generate(c *gin.Context) {
	var req struct {
		Mood string `json:"mood"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	r, err := h.reflections.Generate(c.Request.Context(), req.Mood)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reflection": r})
}
