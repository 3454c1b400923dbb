package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gymora/api/internal/models"
	"gymora/api/internal/repository"
)

func (h HandlerSet) TrainerStats(c *gin.Context) {
	trainer, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	stats, err := h.statsSvc.TrainerStats(c.Request.Context(), trainer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h HandlerSet) ListTrainerMembers(c *gin.Context) {
	trainer, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	members, err := h.users.ListByTrainer(c.Request.Context(), trainer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list members failed"})
		return
	}

	resp := make([]userResponse, 0, len(members))
	for _, member := range members {
		resp = append(resp, toUserResponse(member))
	}
	c.JSON(http.StatusOK, gin.H{"members": resp})
}

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	limit := 50
	offset := 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}

	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}

	items := make([]map[string]interface{}, 0, len(users))
	for _, user := range users {
		items = append(items, map[string]interface{}{
			"id":        user.ID,
			"email":     user.Email,
			"name":      user.Name,
			"role":      user.Role,
			"status":    user.Status,
			"trainerId": user.TrainerID,
			"createdAt": user.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": items})
}

type updateStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required,oneof=active suspended"`
}

func (h HandlerSet) AdminUpdateUserStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update status failed"})
		return
	}

	c.Status(http.StatusNoContent)
}

type assignTrainerRequest struct {
	TrainerID *string `json:"trainerId"`
}

// AdminAssignTrainer links a member to a trainer, or unlinks with null.
func (h HandlerSet) AdminAssignTrainer(c *gin.Context) {
	var req assignTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.TrainerID != nil {
		trainer, err := h.users.GetByID(c.Request.Context(), *req.TrainerID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "trainer not found"})
			return
		}
		if trainer.Role != models.UserRoleTrainer {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user is not a trainer"})
			return
		}
	}

	if err := h.users.AssignTrainer(c.Request.Context(), c.Param("id"), req.TrainerID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assign trainer failed"})
		return
	}

	c.Status(http.StatusNoContent)
}
