package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymora/api/internal/models"
)

func record(id string, checkIn time.Time) models.CheckInRecord {
	return models.CheckInRecord{
		ID:          id,
		UserID:      "user-1",
		CheckInTime: checkIn,
		CreatedAt:   checkIn,
	}
}

func TestComputeEmpty(t *testing.T) {
	result := Compute(nil, time.Now(), time.UTC)

	assert.Equal(t, 0, result.Days)
	assert.False(t, result.CheckedInToday)
	assert.Nil(t, result.TodaysRecord)
}

func TestComputeConsecutiveDaysEndingToday(t *testing.T) {
	today := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)
	records := []models.CheckInRecord{
		record("a", today.Add(-24*time.Hour)),
		record("b", today.Add(-2*time.Hour)),
	}

	result := Compute(records, today, time.UTC)

	assert.Equal(t, 2, result.Days)
	assert.True(t, result.CheckedInToday)
	require.NotNil(t, result.TodaysRecord)
	assert.Equal(t, "b", result.TodaysRecord.ID)
}

func TestComputeBrokenStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []models.CheckInRecord{
		record("old", today.AddDate(0, 0, -3)),
	}

	result := Compute(records, today, time.UTC)

	assert.Equal(t, 0, result.Days)
	assert.False(t, result.CheckedInToday)
	assert.Nil(t, result.TodaysRecord)
}

func TestComputeStreakEndedYesterdayDoesNotCountToday(t *testing.T) {
	today := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	records := []models.CheckInRecord{
		record("a", today.AddDate(0, 0, -1)),
		record("b", today.AddDate(0, 0, -2)),
	}

	result := Compute(records, today, time.UTC)

	// No visit today means the walk from today stops immediately.
	assert.Equal(t, 0, result.Days)
	assert.False(t, result.CheckedInToday)
}

func TestComputeMultipleVisitsSameDayCountOnce(t *testing.T) {
	today := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	records := []models.CheckInRecord{
		record("morning", today.Add(-12*time.Hour)),
		record("evening", today.Add(-1*time.Hour)),
		record("yesterday", today.AddDate(0, 0, -1)),
	}

	result := Compute(records, today, time.UTC)

	assert.Equal(t, 2, result.Days)
	require.NotNil(t, result.TodaysRecord)
	assert.Equal(t, "evening", result.TodaysRecord.ID, "latest visit of the day wins")
}

func TestComputeTimezoneBoundary(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-03-10 01:00 UTC is still the evening of 2026-03-09 in New York.
	lateVisit := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	records := []models.CheckInRecord{record("late", lateVisit)}

	utcResult := Compute(records, today, time.UTC)
	nyResult := Compute(records, today, loc)

	assert.True(t, utcResult.CheckedInToday)
	assert.Equal(t, 1, utcResult.Days)
	assert.False(t, nyResult.CheckedInToday)
	assert.Equal(t, 0, nyResult.Days)
}

func TestComputeNilLocationDefaultsToUTC(t *testing.T) {
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []models.CheckInRecord{record("a", today)}

	result := Compute(records, today, nil)

	assert.Equal(t, 1, result.Days)
	assert.True(t, result.CheckedInToday)
}

func TestComputeInputOrderIrrelevant(t *testing.T) {
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ordered := []models.CheckInRecord{
		record("a", today.AddDate(0, 0, -2)),
		record("b", today.AddDate(0, 0, -1)),
		record("c", today),
	}
	shuffled := []models.CheckInRecord{ordered[1], ordered[2], ordered[0]}

	assert.Equal(t, Compute(ordered, today, time.UTC).Days, Compute(shuffled, today, time.UTC).Days)
	assert.Equal(t, 3, Compute(shuffled, today, time.UTC).Days)
}
