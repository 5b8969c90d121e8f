package repository

import (
	"context"
	"fmt"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository interface {
	CreateMessage(ctx context.Context, userID, message string, response *string, toolUsed string) (*model.ChatMessage, error)
	ListMessages(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error)
	DeleteMessages(ctx context.Context, userID string) error
}

type chatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) ChatRepository {
	return &chatRepo{pool: pool}
}

func (r *chatRepo) CreateMessage(ctx context.Context, userID, message string, response *string, toolUsed string) (*model.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (id, user_id, message, response, tool_used)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, message, response, tool_used, created_at
	`
	var msg model.ChatMessage
	err := r.pool.QueryRow(ctx, query, uuid.NewString(), userID, message, response, toolUsed).Scan(
		&msg.ID,
		&msg.UserID,
		&msg.Message,
		&msg.Response,
		&msg.ToolUsed,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat message: %w", err)
	}
	return &msg, nil
}

// ListMessages returns the user's most recent turns, newest first.
func (r *chatRepo) ListMessages(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	query := `
		SELECT id, user_id, message, response, tool_used, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying chat messages: %w", err)
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var msg model.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.UserID,
			&msg.Message,
			&msg.Response,
			&msg.ToolUsed,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning chat message row: %w", err)
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat message rows: %w", err)
	}

	return messages, nil
}

func (r *chatRepo) DeleteMessages(ctx context.Context, userID string) error {
	query := `DELETE FROM chat_messages WHERE user_id = $1`
	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("deleting chat messages: %w", err)
	}
	return nil
}
