package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gymora/api/internal/models"
	"gymora/api/internal/streak"
)

func TestStreakWindowSaturated(t *testing.T) {
	assert.False(t, streakWindowSaturated(streak.Result{Days: 0}))
	assert.False(t, streakWindowSaturated(streak.Result{Days: streakWindowDays - 1}))
	assert.True(t, streakWindowSaturated(streak.Result{Days: streakWindowDays}))
	assert.True(t, streakWindowSaturated(streak.Result{Days: 120}))
}

func TestLongStreakComputesBeyondWindow(t *testing.T) {
	// A 120-day streak must survive the window refetch path intact.
	today := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	records := make([]models.CheckInRecord, 0, 120)
	for i := 0; i < 120; i++ {
		records = append(records, models.CheckInRecord{
			ID:          "r",
			UserID:      "u1",
			CheckInTime: today.AddDate(0, 0, -i),
		})
	}

	result := streak.Compute(records, today, time.UTC)
	assert.Equal(t, 120, result.Days)
	assert.True(t, streakWindowSaturated(result))
}
