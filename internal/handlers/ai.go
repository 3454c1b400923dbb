package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymora/api/internal/service"
)

type aiChatRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
}

// AIChat proxies one message to the coaching assistant. Provider transport
// failures surface as 500; unusable model output degrades to the canned reply.
func (h HandlerSet) AIChat(c *gin.Context) {
	var req aiChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.aiService.Chat(c.Request.Context(), req.Message)
	if err != nil {
		h.log.Error().Err(err).Msg("ai chat failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

type aiWorkoutRequest struct {
	Goal        string `json:"goal"`
	Level       string `json:"level"`
	DaysPerWeek int    `json:"daysPerWeek" binding:"min=0,max=7"`
}

func (h HandlerSet) AIWorkout(c *gin.Context) {
	var req aiWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.aiService.GenerateWorkout(c.Request.Context(), service.WorkoutRequest{
		Goal:        req.Goal,
		Level:       req.Level,
		DaysPerWeek: req.DaysPerWeek,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ai workout generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workout": plan})
}

func (h HandlerSet) AIAnalysis(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	analysis, err := h.aiService.AnalyzeProgress(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("ai progress analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}
