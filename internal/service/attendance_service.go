package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"gymora/api/internal/config"
	"gymora/api/internal/ids"
	"gymora/api/internal/models"
	"gymora/api/internal/repository"
	"gymora/api/internal/streak"
)

var (
	// ErrAlreadyCheckedIn aliases the repository sentinel so the conflict is
	// reported identically whether the pre-check or the unique index catches it.
	ErrAlreadyCheckedIn = repository.ErrAlreadyCheckedIn
	ErrNotCheckedIn     = errors.New("no open check-in")
	ErrNoSessionsLeft   = repository.ErrNoSessionsLeft
)

type AttendanceService struct {
	pool       *pgxpool.Pool
	attendance *repository.AttendanceRepository
	packages   *repository.PackageRepository
	loc        *time.Location
	log        zerolog.Logger
}

func NewAttendanceService(
	pool *pgxpool.Pool,
	attendance *repository.AttendanceRepository,
	packages *repository.PackageRepository,
	cfg *config.AppConfig,
	log zerolog.Logger,
) (*AttendanceService, error) {
	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load attendance timezone %q: %w", cfg.Attendance.Timezone, err)
	}

	return &AttendanceService{
		pool:       pool,
		attendance: attendance,
		packages:   packages,
		loc:        loc,
		log:        log,
	}, nil
}

// Location is the single timezone in which check-in timestamps are truncated
// to calendar dates.
func (s *AttendanceService) Location() *time.Location {
	return s.loc
}

// CheckIn records a visit. When the member holds a limited active package,
// the session decrement commits in the same transaction as the insert, so a
// crash between the two writes cannot strand the accounting.
func (s *AttendanceService) CheckIn(ctx context.Context, userID string) (models.CheckInRecord, error) {
	if _, err := s.attendance.GetOpenByUser(ctx, userID); err == nil {
		return models.CheckInRecord{}, ErrAlreadyCheckedIn
	} else if !errors.Is(err, repository.ErrAttendanceNotFound) {
		return models.CheckInRecord{}, err
	}

	rec := models.CheckInRecord{
		ID:          ids.New(),
		UserID:      userID,
		CheckInTime: time.Now(),
	}

	purchase, err := s.packages.GetActivePurchase(ctx, userID)
	hasLimitedPackage := err == nil && purchase.SessionsRemaining != nil
	if err != nil && !errors.Is(err, repository.ErrPurchaseNotFound) {
		return models.CheckInRecord{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.CheckInRecord{}, err
	}
	defer tx.Rollback(ctx)

	if err := s.attendance.CreateTx(ctx, tx, rec); err != nil {
		return models.CheckInRecord{}, err
	}
	if hasLimitedPackage {
		if err := s.packages.DecrementSessionsTx(ctx, tx, purchase.ID); err != nil {
			return models.CheckInRecord{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.CheckInRecord{}, err
	}

	return rec, nil
}

func (s *AttendanceService) CheckOut(ctx context.Context, userID string) (models.CheckInRecord, error) {
	rec, err := s.attendance.GetOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAttendanceNotFound) {
			return models.CheckInRecord{}, ErrNotCheckedIn
		}
		return models.CheckInRecord{}, err
	}

	now := time.Now()
	duration := int(now.Sub(rec.CheckInTime).Minutes())
	if duration < 0 {
		duration = 0
	}

	if err := s.attendance.CheckOut(ctx, rec.ID, now, duration); err != nil {
		return models.CheckInRecord{}, err
	}

	rec.CheckOutTime = &now
	rec.DurationMinutes = &duration
	return rec, nil
}

type AttendanceSummary struct {
	Streak        streak.Result
	TotalSessions int
}

// streakWindowDays bounds the usual history fetch for the streak scan.
const streakWindowDays = 90

// streakWindowSaturated reports whether a streak fills the fetch window, in
// which case it may extend past it and the full history must be scanned.
func streakWindowSaturated(r streak.Result) bool {
	return r.Days >= streakWindowDays
}

// Summary combines the derived streak with the separate total-sessions count.
// The streak counts distinct days; the total counts every record. Most
// members fit in the 90-day window; a streak that saturates it triggers one
// unbounded refetch so long streaks report exactly.
func (s *AttendanceService) Summary(ctx context.Context, userID string) (AttendanceSummary, error) {
	now := time.Now()
	since := now.In(s.loc).AddDate(0, 0, -streakWindowDays)
	records, err := s.attendance.ListByUserSince(ctx, userID, since)
	if err != nil {
		return AttendanceSummary{}, err
	}

	result := streak.Compute(records, now, s.loc)
	if streakWindowSaturated(result) {
		records, err = s.attendance.ListByUserSince(ctx, userID, time.Time{})
		if err != nil {
			return AttendanceSummary{}, err
		}
		result = streak.Compute(records, now, s.loc)
	}

	total, err := s.attendance.CountByUser(ctx, userID)
	if err != nil {
		return AttendanceSummary{}, err
	}

	return AttendanceSummary{
		Streak:        result,
		TotalSessions: total,
	}, nil
}

func (s *AttendanceService) History(ctx context.Context, userID string, limit int) ([]models.CheckInRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.attendance.ListByUser(ctx, userID, limit)
}

// CloseStale force-checks-out visits left open longer than maxMinutes,
// capping the recorded duration. Used by the nightly job.
func (s *AttendanceService) CloseStale(ctx context.Context, maxMinutes int) (int, error) {
	cutoff := time.Now().Add(-time.Duration(maxMinutes) * time.Minute)
	open, err := s.attendance.ListOpenBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, rec := range open {
		checkOut := rec.CheckInTime.Add(time.Duration(maxMinutes) * time.Minute)
		if err := s.attendance.CheckOut(ctx, rec.ID, checkOut, maxMinutes); err != nil {
			s.log.Warn().Err(err).Str("record_id", rec.ID).Msg("auto checkout failed")
			continue
		}
		closed++
	}
	return closed, nil
}
