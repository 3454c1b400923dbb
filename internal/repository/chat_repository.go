package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"gymora/api/internal/models"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

func (r *ChatRepository) Create(ctx context.Context, msg models.ChatMessage) error {
	const query = `
		INSERT INTO chat_messages (id, sender_id, recipient_id, body, sent_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.SenderID,
		msg.RecipientID,
		msg.Body,
		msg.SentAt,
	)
	return err
}

// ListConversation returns messages between two users, newest first.
func (r *ChatRepository) ListConversation(ctx context.Context, userA string, userB string, limit int) ([]models.ChatMessage, error) {
	const query = `
		SELECT id, sender_id, recipient_id, body, sent_at
		FROM chat_messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY sent_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, userA, userB, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.RecipientID,
			&msg.Body,
			&msg.SentAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
