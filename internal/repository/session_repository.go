package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gymora/api/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	const query = `
		INSERT INTO sessions (token_hash, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		session.TokenHash,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
	)
	return err
}

func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash []byte) (models.Session, error) {
	const query = `
		SELECT token_hash, user_id, created_at, expires_at
		FROM sessions
		WHERE token_hash = $1
	`

	row := r.pool.QueryRow(ctx, query, tokenHash)
	var session models.Session
	if err := row.Scan(
		&session.TokenHash,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

// DeleteByTokenHash is idempotent: deleting an absent session is not an error.
func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash []byte) error {
	const query = `DELETE FROM sessions WHERE token_hash = $1`
	_, err := r.pool.Exec(ctx, query, tokenHash)
	return err
}

func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM sessions WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// DeleteExpired is the nightly hygiene sweep. Lazy deletion on read remains
// the correctness mechanism; this just keeps the table small.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < $1`
	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
