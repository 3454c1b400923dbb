package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gymora/api/internal/models"
)

var ErrNutritionLogNotFound = errors.New("nutrition log not found")

type NutritionRepository struct {
	pool *pgxpool.Pool
}

func NewNutritionRepository(pool *pgxpool.Pool) *NutritionRepository {
	return &NutritionRepository{pool: pool}
}

const nutritionColumns = `id, user_id, log_date, meal_type, description, calories, protein_g, carbs_g, fat_g, created_at`

func (r *NutritionRepository) Create(ctx context.Context, log models.NutritionLog) error {
	const query = `
		INSERT INTO nutrition_logs (
			id, user_id, log_date, meal_type, description, calories, protein_g, carbs_g, fat_g, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		log.ID,
		log.UserID,
		log.LogDate,
		log.MealType,
		log.Description,
		log.Calories,
		log.ProteinG,
		log.CarbsG,
		log.FatG,
	)
	return err
}

func (r *NutritionRepository) GetByID(ctx context.Context, id string) (models.NutritionLog, error) {
	const query = `SELECT ` + nutritionColumns + ` FROM nutrition_logs WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *NutritionRepository) ListByUser(ctx context.Context, userID string, from time.Time, to time.Time) ([]models.NutritionLog, error) {
	const query = `
		SELECT ` + nutritionColumns + `
		FROM nutrition_logs
		WHERE user_id = $1 AND log_date >= $2 AND log_date <= $3
		ORDER BY log_date DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.NutritionLog
	for rows.Next() {
		log, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *NutritionRepository) Delete(ctx context.Context, id string, userID string) error {
	const query = `DELETE FROM nutrition_logs WHERE id = $1 AND user_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNutritionLogNotFound
	}
	return nil
}

func (r *NutritionRepository) scanOne(row pgx.Row) (models.NutritionLog, error) {
	var log models.NutritionLog
	if err := row.Scan(
		&log.ID,
		&log.UserID,
		&log.LogDate,
		&log.MealType,
		&log.Description,
		&log.Calories,
		&log.ProteinG,
		&log.CarbsG,
		&log.FatG,
		&log.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NutritionLog{}, ErrNutritionLogNotFound
		}
		return models.NutritionLog{}, err
	}
	return log, nil
}
