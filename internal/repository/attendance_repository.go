package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gymora/api/internal/models"
)

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in")
)

type AttendanceRepository struct {
	pool *pgxpool.Pool
}

func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

const attendanceColumns = `id, user_id, check_in_time, check_out_time, duration_minutes, created_at`

// CreateTx inserts inside the caller's transaction so the package-session
// decrement commits or rolls back together with the check-in. The partial
// unique index on open records backstops concurrent check-ins that both pass
// the service's pre-check; the loser surfaces as ErrAlreadyCheckedIn.
func (r *AttendanceRepository) CreateTx(ctx context.Context, tx pgx.Tx, rec models.CheckInRecord) error {
	const query = `
		INSERT INTO attendance (id, user_id, check_in_time, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := tx.Exec(ctx, query, rec.ID, rec.UserID, rec.CheckInTime); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyCheckedIn
		}
		return err
	}
	return nil
}

func (r *AttendanceRepository) GetOpenByUser(ctx context.Context, userID string) (models.CheckInRecord, error) {
	const query = `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE user_id = $1 AND check_out_time IS NULL
		ORDER BY check_in_time DESC
		LIMIT 1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

func (r *AttendanceRepository) CheckOut(ctx context.Context, id string, checkOutTime time.Time, durationMinutes int) error {
	const query = `
		UPDATE attendance
		SET check_out_time = $2, duration_minutes = $3
		WHERE id = $1 AND check_out_time IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id, checkOutTime, durationMinutes)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAttendanceNotFound
	}
	return nil
}

func (r *AttendanceRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.CheckInRecord, error) {
	const query = `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE user_id = $1
		ORDER BY check_in_time DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *AttendanceRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]models.CheckInRecord, error) {
	const query = `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE user_id = $1 AND check_in_time >= $2
		ORDER BY check_in_time DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *AttendanceRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM attendance WHERE user_id = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AttendanceRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM attendance WHERE check_in_time >= $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountSinceByTrainer counts recent check-ins by the trainer's own members.
func (r *AttendanceRepository) CountSinceByTrainer(ctx context.Context, trainerID string, since time.Time) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		WHERE u.trainer_id = $1 AND a.check_in_time >= $2
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, trainerID, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListOpenBefore returns visits still open past the cutoff, for the nightly
// auto-checkout job.
func (r *AttendanceRepository) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]models.CheckInRecord, error) {
	const query = `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE check_out_time IS NULL AND check_in_time < $1
		ORDER BY check_in_time ASC
	`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *AttendanceRepository) scanOne(row pgx.Row) (models.CheckInRecord, error) {
	var rec models.CheckInRecord
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.CheckInTime,
		&rec.CheckOutTime,
		&rec.DurationMinutes,
		&rec.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CheckInRecord{}, ErrAttendanceNotFound
		}
		return models.CheckInRecord{}, err
	}
	return rec, nil
}

func (r *AttendanceRepository) scanAll(rows pgx.Rows) ([]models.CheckInRecord, error) {
	var records []models.CheckInRecord
	for rows.Next() {
		rec, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
