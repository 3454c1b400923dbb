package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gymora/api/internal/models"
	"gymora/api/internal/service"
)

type attendanceResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	CheckInTime     time.Time  `json:"checkInTime"`
	CheckOutTime    *time.Time `json:"checkOutTime,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
}

func toAttendanceResponse(rec models.CheckInRecord) attendanceResponse {
	return attendanceResponse{
		ID:              rec.ID,
		UserID:          rec.UserID,
		CheckInTime:     rec.CheckInTime,
		CheckOutTime:    rec.CheckOutTime,
		DurationMinutes: rec.DurationMinutes,
	}
}

func (h HandlerSet) CheckIn(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	rec, err := h.attendance.CheckIn(c.Request.Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyCheckedIn):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNoSessionsLeft):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "check-in failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"attendance": toAttendanceResponse(rec)})
}

func (h HandlerSet) CheckOut(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	rec, err := h.attendance.CheckOut(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotCheckedIn) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check-out failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attendance": toAttendanceResponse(rec)})
}

type summaryResponse struct {
	StreakDays     int                 `json:"streakDays"`
	CheckedInToday bool                `json:"checkedInToday"`
	TodaysRecord   *attendanceResponse `json:"todaysRecord"`
	TotalSessions  int                 `json:"totalSessions"`
}

func (h HandlerSet) AttendanceSummary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	summary, err := h.attendance.Summary(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary failed"})
		return
	}

	resp := summaryResponse{
		StreakDays:     summary.Streak.Days,
		CheckedInToday: summary.Streak.CheckedInToday,
		TotalSessions:  summary.TotalSessions,
	}
	if summary.Streak.TodaysRecord != nil {
		rec := toAttendanceResponse(*summary.Streak.TodaysRecord)
		resp.TodaysRecord = &rec
	}

	c.JSON(http.StatusOK, gin.H{"summary": resp})
}

func (h HandlerSet) AttendanceHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	h.respondHistory(c, user.ID)
}

// MemberAttendanceHistory lets a trainer or admin view a member's visits.
func (h HandlerSet) MemberAttendanceHistory(c *gin.Context) {
	viewer, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	memberID := c.Param("userId")
	member, err := h.users.GetByID(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}

	if viewer.Role == models.UserRoleTrainer {
		if member.TrainerID == nil || *member.TrainerID != viewer.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
	}

	h.respondHistory(c, member.ID)
}

func (h HandlerSet) respondHistory(c *gin.Context, userID string) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	records, err := h.attendance.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history failed"})
		return
	}

	resp := make([]attendanceResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toAttendanceResponse(rec))
	}

	c.JSON(http.StatusOK, gin.H{"attendances": resp})
}
