package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gymora/api/internal/ids"
	"gymora/api/internal/models"
	"gymora/api/internal/repository"
)

type nutritionResponse struct {
	ID          string `json:"id"`
	LogDate     string `json:"logDate"`
	MealType    string `json:"mealType"`
	Description string `json:"description"`
	Calories    int    `json:"calories"`
	ProteinG    int    `json:"proteinG"`
	CarbsG      int    `json:"carbsG"`
	FatG        int    `json:"fatG"`
}

func toNutritionResponse(log models.NutritionLog) nutritionResponse {
	return nutritionResponse{
		ID:          log.ID,
		LogDate:     log.LogDate.Format("2006-01-02"),
		MealType:    log.MealType,
		Description: log.Description,
		Calories:    log.Calories,
		ProteinG:    log.ProteinG,
		CarbsG:      log.CarbsG,
		FatG:        log.FatG,
	}
}

type createNutritionRequest struct {
	LogDate     string `json:"logDate" binding:"required"`
	MealType    string `json:"mealType" binding:"required,oneof=breakfast lunch dinner snack"`
	Description string `json:"description" binding:"required"`
	Calories    int    `json:"calories" binding:"min=0"`
	ProteinG    int    `json:"proteinG" binding:"min=0"`
	CarbsG      int    `json:"carbsG" binding:"min=0"`
	FatG        int    `json:"fatG" binding:"min=0"`
}

func (h HandlerSet) CreateNutritionLog(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createNutritionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logDate, err := time.Parse("2006-01-02", req.LogDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logDate must be YYYY-MM-DD"})
		return
	}

	entry := models.NutritionLog{
		ID:          ids.New(),
		UserID:      user.ID,
		LogDate:     logDate,
		MealType:    req.MealType,
		Description: req.Description,
		Calories:    req.Calories,
		ProteinG:    req.ProteinG,
		CarbsG:      req.CarbsG,
		FatG:        req.FatG,
	}

	if err := h.nutrition.Create(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create nutrition log failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"log": toNutritionResponse(entry)})
}

func (h HandlerSet) ListNutritionLogs(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -7)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = parsed
	}

	logs, err := h.nutrition.ListByUser(c.Request.Context(), user.ID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list nutrition logs failed"})
		return
	}

	resp := make([]nutritionResponse, 0, len(logs))
	for _, log := range logs {
		resp = append(resp, toNutritionResponse(log))
	}
	c.JSON(http.StatusOK, gin.H{"logs": resp})
}

func (h HandlerSet) DeleteNutritionLog(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.nutrition.Delete(c.Request.Context(), c.Param("id"), user.ID); err != nil {
		if errors.Is(err, repository.ErrNutritionLogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete nutrition log failed"})
		return
	}

	c.Status(http.StatusNoContent)
}
