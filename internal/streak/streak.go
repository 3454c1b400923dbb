// Package streak derives consecutive-day attendance streaks from raw
// check-in records. All date truncation happens in one explicit location so
// the calendar-day policy is a single configuration decision.
package streak

import (
	"sort"
	"time"

	"gymora/api/internal/models"
)

type Result struct {
	Days           int
	CheckedInToday bool
	TodaysRecord   *models.CheckInRecord
}

// Compute walks backward from today counting consecutive calendar days with
// at least one check-in. Multiple visits on the same day count once. The
// input order does not matter; the function has no side effects.
func Compute(records []models.CheckInRecord, today time.Time, loc *time.Location) Result {
	if loc == nil {
		loc = time.UTC
	}

	if len(records) == 0 {
		return Result{}
	}

	sorted := make([]models.CheckInRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CheckInTime.After(sorted[j].CheckInTime)
	})

	days := make(map[string]struct{}, len(sorted))
	for _, rec := range sorted {
		days[dateKey(rec.CheckInTime, loc)] = struct{}{}
	}

	todayKey := dateKey(today, loc)

	var todaysRecord *models.CheckInRecord
	for i := range sorted {
		if dateKey(sorted[i].CheckInTime, loc) == todayKey {
			todaysRecord = &sorted[i]
			break
		}
	}

	result := Result{TodaysRecord: todaysRecord}

	cursor := today.In(loc)
	for {
		if _, ok := days[dateKey(cursor, loc)]; !ok {
			break
		}
		result.Days++
		cursor = cursor.AddDate(0, 0, -1)
	}

	result.CheckedInToday = todaysRecord != nil

	return result
}

func dateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
