package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gymora/api/internal/ids"
	"gymora/api/internal/models"
)

type progressResponse struct {
	ID         string    `json:"id"`
	WeightKg   float64   `json:"weightKg"`
	BodyFatPct *float64  `json:"bodyFatPct,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

func toProgressResponse(entry models.ProgressEntry) progressResponse {
	return progressResponse{
		ID:         entry.ID,
		WeightKg:   entry.WeightKg,
		BodyFatPct: entry.BodyFatPct,
		Notes:      entry.Notes,
		RecordedAt: entry.RecordedAt,
	}
}

type createProgressRequest struct {
	WeightKg   float64  `json:"weightKg" binding:"required,gt=0"`
	BodyFatPct *float64 `json:"bodyFatPct"`
	Notes      string   `json:"notes"`
}

func (h HandlerSet) CreateProgressEntry(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.ProgressEntry{
		ID:         ids.New(),
		UserID:     user.ID,
		WeightKg:   req.WeightKg,
		BodyFatPct: req.BodyFatPct,
		Notes:      req.Notes,
		RecordedAt: time.Now(),
	}

	if err := h.progress.Create(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create progress entry failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": toProgressResponse(entry)})
}

func (h HandlerSet) ListProgressEntries(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	entries, err := h.progress.ListByUser(c.Request.Context(), user.ID, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list progress entries failed"})
		return
	}

	resp := make([]progressResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, toProgressResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"entries": resp})
}
