package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quillhq/quill-backend/internal/entity"
)

// MessageRepository defines the interface for conversation turn persistence.
// The message table is append-only from this service's perspective.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg entity.Message) (*entity.Message, error)
	ListRecentByFile(ctx context.Context, fileID string, limit int) ([]*entity.Message, error)
}

var _ MessageRepository = &MessagePostgres{}

// MessagePostgres implements MessageRepository using PostgreSQL
type MessagePostgres struct {
	db *pgxpool.Pool
}

func NewMessagePostgres(db *pgxpool.Pool) *MessagePostgres {
	return &MessagePostgres{db: db}
}

const createMessageQuery = `
INSERT INTO message (id, file_id, user_id, text, is_user_message)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, file_id, user_id, text, is_user_message, created_at`

func (r *MessagePostgres) CreateMessage(ctx context.Context, msg entity.Message) (*entity.Message, error) {
	msgID, err := uuid.Parse(msg.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid message ID: %w", err)
	}

	fileID, err := uuid.Parse(msg.FileID)
	if err != nil {
		return nil, fmt.Errorf("invalid file ID: %w", err)
	}

	var m dbMessage
	row := r.db.QueryRow(ctx, createMessageQuery,
		toPgUUID(msgID),
		toPgUUID(fileID),
		msg.UserID,
		msg.Text,
		msg.IsUserMessage,
	)
	if err := row.Scan(&m.ID, &m.FileID, &m.UserID, &m.Text, &m.IsUserMessage, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	return toEntityMessage(&m), nil
}

const listRecentByFileQuery = `
SELECT id, file_id, user_id, text, is_user_message, created_at
FROM (
	SELECT id, file_id, user_id, text, is_user_message, created_at
	FROM message
	WHERE file_id = $1
	ORDER BY created_at DESC
	LIMIT $2
) recent
ORDER BY created_at ASC`

// ListRecentByFile returns the most recent messages for the file in
// ascending created_at order.
func (r *MessagePostgres) ListRecentByFile(ctx context.Context, fileID string, limit int) ([]*entity.Message, error) {
	fid, err := uuid.Parse(fileID)
	if err != nil {
		return nil, fmt.Errorf("invalid file ID: %w", err)
	}

	rows, err := r.db.Query(ctx, listRecentByFileQuery, toPgUUID(fid), limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*entity.Message, 0, limit)
	for rows.Next() {
		var m dbMessage
		if err := rows.Scan(&m.ID, &m.FileID, &m.UserID, &m.Text, &m.IsUserMessage, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, toEntityMessage(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}
