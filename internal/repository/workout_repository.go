package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gymora/api/internal/models"
)

var ErrWorkoutNotFound = errors.New("workout plan not found")

type WorkoutRepository struct {
	pool *pgxpool.Pool
}

func NewWorkoutRepository(pool *pgxpool.Pool) *WorkoutRepository {
	return &WorkoutRepository{pool: pool}
}

// Create inserts the plan and its exercises in one transaction.
func (r *WorkoutRepository) Create(ctx context.Context, plan models.WorkoutPlan) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const planQuery = `
		INSERT INTO workout_plans (id, member_id, trainer_id, name, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, planQuery,
		plan.ID,
		plan.MemberID,
		plan.TrainerID,
		plan.Name,
		plan.Notes,
		plan.Status,
	); err != nil {
		return err
	}

	const exerciseQuery = `
		INSERT INTO workout_exercises (id, plan_id, name, sets, reps, rest_seconds, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, ex := range plan.Exercises {
		if _, err := tx.Exec(ctx, exerciseQuery,
			ex.ID,
			plan.ID,
			ex.Name,
			ex.Sets,
			ex.Reps,
			ex.RestSeconds,
			ex.Position,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *WorkoutRepository) GetByID(ctx context.Context, id string) (models.WorkoutPlan, error) {
	const query = `
		SELECT id, member_id, trainer_id, name, notes, status, created_at, updated_at
		FROM workout_plans
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	plan, err := r.scanPlan(row)
	if err != nil {
		return models.WorkoutPlan{}, err
	}

	exercises, err := r.listExercises(ctx, plan.ID)
	if err != nil {
		return models.WorkoutPlan{}, err
	}
	plan.Exercises = exercises
	return plan, nil
}

func (r *WorkoutRepository) ListByMember(ctx context.Context, memberID string) ([]models.WorkoutPlan, error) {
	const query = `
		SELECT id, member_id, trainer_id, name, notes, status, created_at, updated_at
		FROM workout_plans
		WHERE member_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, memberID)
}

func (r *WorkoutRepository) ListByTrainer(ctx context.Context, trainerID string) ([]models.WorkoutPlan, error) {
	const query = `
		SELECT id, member_id, trainer_id, name, notes, status, created_at, updated_at
		FROM workout_plans
		WHERE trainer_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, trainerID)
}

func (r *WorkoutRepository) CountActiveByTrainer(ctx context.Context, trainerID string) (int, error) {
	const query = `
		SELECT COUNT(*) FROM workout_plans
		WHERE trainer_id = $1 AND status IN ('assigned', 'active')
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, trainerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *WorkoutRepository) UpdateStatus(ctx context.Context, id string, status models.WorkoutStatus) error {
	const query = `UPDATE workout_plans SET status = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *WorkoutRepository) list(ctx context.Context, query string, arg string) ([]models.WorkoutPlan, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.WorkoutPlan
	for rows.Next() {
		plan, err := r.scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range plans {
		exercises, err := r.listExercises(ctx, plans[i].ID)
		if err != nil {
			return nil, err
		}
		plans[i].Exercises = exercises
	}
	return plans, nil
}

func (r *WorkoutRepository) listExercises(ctx context.Context, planID string) ([]models.Exercise, error) {
	const query = `
		SELECT id, plan_id, name, sets, reps, rest_seconds, position
		FROM workout_exercises
		WHERE plan_id = $1
		ORDER BY position ASC
	`

	rows, err := r.pool.Query(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []models.Exercise
	for rows.Next() {
		var ex models.Exercise
		if err := rows.Scan(
			&ex.ID,
			&ex.PlanID,
			&ex.Name,
			&ex.Sets,
			&ex.Reps,
			&ex.RestSeconds,
			&ex.Position,
		); err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}

func (r *WorkoutRepository) scanPlan(row pgx.Row) (models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	if err := row.Scan(
		&plan.ID,
		&plan.MemberID,
		&plan.TrainerID,
		&plan.Name,
		&plan.Notes,
		&plan.Status,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.WorkoutPlan{}, ErrWorkoutNotFound
		}
		return models.WorkoutPlan{}, err
	}
	return plan, nil
}
