package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gymora/api/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, name, role, status, trainer_id, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, email, password_hash, name, role, status, trainer_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.Status,
		user.TrainerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) List(ctx context.Context, limit int, offset int) ([]models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) ListByTrainer(ctx context.Context, trainerID string) ([]models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE trainer_id = $1
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) CountByTrainer(ctx context.Context, trainerID string) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE trainer_id = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, trainerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, name string) error {
	const query = `UPDATE users SET name = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status models.UserStatus) error {
	const query = `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) AssignTrainer(ctx context.Context, memberID string, trainerID *string) error {
	const query = `UPDATE users SET trainer_id = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, memberID, trainerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword stores a freshly derived credential. The previous value is
// replaced, never mutated in place by the caller.
func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.Status,
		&user.TrainerID,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
