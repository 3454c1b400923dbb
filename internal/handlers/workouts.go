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

type exerciseResponse struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"`
	RestSeconds int    `json:"restSeconds"`
}

type workoutResponse struct {
	ID        string             `json:"id"`
	MemberID  string             `json:"memberId"`
	TrainerID string             `json:"trainerId"`
	Name      string             `json:"name"`
	Notes     string             `json:"notes"`
	Status    string             `json:"status"`
	Exercises []exerciseResponse `json:"exercises"`
	CreatedAt time.Time          `json:"createdAt"`
}

func toWorkoutResponse(plan models.WorkoutPlan) workoutResponse {
	exercises := make([]exerciseResponse, 0, len(plan.Exercises))
	for _, ex := range plan.Exercises {
		exercises = append(exercises, exerciseResponse{
			Name:        ex.Name,
			Sets:        ex.Sets,
			Reps:        ex.Reps,
			RestSeconds: ex.RestSeconds,
		})
	}
	return workoutResponse{
		ID:        plan.ID,
		MemberID:  plan.MemberID,
		TrainerID: plan.TrainerID,
		Name:      plan.Name,
		Notes:     plan.Notes,
		Status:    string(plan.Status),
		Exercises: exercises,
		CreatedAt: plan.CreatedAt,
	}
}

type assignWorkoutRequest struct {
	MemberID  string `json:"memberId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Notes     string `json:"notes"`
	Exercises []struct {
		Name        string `json:"name" binding:"required"`
		Sets        int    `json:"sets" binding:"required,min=1"`
		Reps        string `json:"reps" binding:"required"`
		RestSeconds int    `json:"restSeconds"`
	} `json:"exercises" binding:"required,min=1,dive"`
}

// AssignWorkout lets a trainer create a plan for one of their members.
func (h HandlerSet) AssignWorkout(c *gin.Context) {
	trainer, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req assignWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.users.GetByID(c.Request.Context(), req.MemberID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	if trainer.Role == models.UserRoleTrainer {
		if member.TrainerID == nil || *member.TrainerID != trainer.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "member is not assigned to you"})
			return
		}
	}

	plan := models.WorkoutPlan{
		ID:        ids.New(),
		MemberID:  member.ID,
		TrainerID: trainer.ID,
		Name:      req.Name,
		Notes:     req.Notes,
		Status:    models.WorkoutStatusAssigned,
	}
	for i, ex := range req.Exercises {
		plan.Exercises = append(plan.Exercises, models.Exercise{
			ID:          ids.New(),
			PlanID:      plan.ID,
			Name:        ex.Name,
			Sets:        ex.Sets,
			Reps:        ex.Reps,
			RestSeconds: ex.RestSeconds,
			Position:    i,
		})
	}

	if err := h.workouts.Create(c.Request.Context(), plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assign workout failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"workout": toWorkoutResponse(plan)})
}

// ListWorkouts returns the caller's plans: assigned plans for members,
// created plans for trainers.
func (h HandlerSet) ListWorkouts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var (
		plans []models.WorkoutPlan
		err   error
	)
	switch user.Role {
	case models.UserRoleTrainer:
		plans, err = h.workouts.ListByTrainer(c.Request.Context(), user.ID)
	default:
		plans, err = h.workouts.ListByMember(c.Request.Context(), user.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list workouts failed"})
		return
	}

	resp := make([]workoutResponse, 0, len(plans))
	for _, plan := range plans {
		resp = append(resp, toWorkoutResponse(plan))
	}
	c.JSON(http.StatusOK, gin.H{"workouts": resp})
}

func (h HandlerSet) GetWorkout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	plan, err := h.workouts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load workout failed"})
		return
	}

	if !canAccessWorkout(user, plan) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workout": toWorkoutResponse(plan)})
}

type updateWorkoutStatusRequest struct {
	Status models.WorkoutStatus `json:"status" binding:"required,oneof=assigned active completed"`
}

func (h HandlerSet) UpdateWorkoutStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req updateWorkoutStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.workouts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load workout failed"})
		return
	}

	if !canAccessWorkout(user, plan) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if err := h.workouts.UpdateStatus(c.Request.Context(), plan.ID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update workout failed"})
		return
	}

	plan.Status = req.Status
	c.JSON(http.StatusOK, gin.H{"workout": toWorkoutResponse(plan)})
}

func canAccessWorkout(user models.User, plan models.WorkoutPlan) bool {
	switch user.Role {
	case models.UserRoleAdmin:
		return true
	case models.UserRoleTrainer:
		return plan.TrainerID == user.ID
	default:
		return plan.MemberID == user.ID
	}
}
