package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gymora/api/internal/models"
)

var ErrProgressNotFound = errors.New("progress entry not found")

type ProgressRepository struct {
	pool *pgxpool.Pool
}

func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

func (r *ProgressRepository) Create(ctx context.Context, entry models.ProgressEntry) error {
	const query = `
		INSERT INTO progress_entries (id, user_id, weight_kg, body_fat_pct, notes, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.WeightKg,
		entry.BodyFatPct,
		entry.Notes,
		entry.RecordedAt,
	)
	return err
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.ProgressEntry, error) {
	const query = `
		SELECT id, user_id, weight_kg, body_fat_pct, notes, recorded_at
		FROM progress_entries
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ProgressEntry
	for rows.Next() {
		var entry models.ProgressEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.WeightKg,
			&entry.BodyFatPct,
			&entry.Notes,
			&entry.RecordedAt,
		); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrProgressNotFound
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
