package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quillhq/quill-backend/internal/entity"
)

// FileRepository defines the interface for uploaded file metadata lookups.
// Files are created by the upload pipeline; this service only reads them.
type FileRepository interface {
	GetFileByIDAndUser(ctx context.Context, fileID, userID string) (*entity.File, error)
}

var _ FileRepository = &FilePostgres{}

// FilePostgres implements FileRepository using PostgreSQL
type FilePostgres struct {
	db *pgxpool.Pool
}

func NewFilePostgres(db *pgxpool.Pool) *FilePostgres {
	return &FilePostgres{db: db}
}

const getFileByIDAndUserQuery = `
SELECT id, user_id, name, created_at
FROM file
WHERE id = $1 AND user_id = $2`

// GetFileByIDAndUser returns the file only when both the id and the owner
// match. A missing file and a foreign file are both entity.ErrFileNotFound,
// so callers cannot tell other users' files exist.
func (r *FilePostgres) GetFileByIDAndUser(ctx context.Context, fileID, userID string) (*entity.File, error) {
	fid, err := uuid.Parse(fileID)
	if err != nil {
		// Not a UUID, so it cannot reference any stored file.
		return nil, entity.ErrFileNotFound
	}

	var f dbFile
	row := r.db.QueryRow(ctx, getFileByIDAndUserQuery, toPgUUID(fid), userID)
	if err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrFileNotFound
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return toEntityFile(&f), nil
}
