package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/quillhq/quill-backend/internal/entity"
)

type dbFile struct {
	ID        pgtype.UUID
	UserID    string
	Name      string
	CreatedAt pgtype.Timestamptz
}

type dbMessage struct {
	ID            pgtype.UUID
	FileID        pgtype.UUID
	UserID        string
	Text          string
	IsUserMessage bool
	CreatedAt     pgtype.Timestamptz
}

func toEntityFile(f *dbFile) *entity.File {
	return &entity.File{
		ID:        uuid.UUID(f.ID.Bytes).String(),
		UserID:    f.UserID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt.Time,
	}
}

func toEntityMessage(m *dbMessage) *entity.Message {
	return &entity.Message{
		ID:            uuid.UUID(m.ID.Bytes).String(),
		FileID:        uuid.UUID(m.FileID.Bytes).String(),
		UserID:        m.UserID,
		Text:          m.Text,
		IsUserMessage: m.IsUserMessage,
		CreatedAt:     m.CreatedAt.Time,
	}
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}
