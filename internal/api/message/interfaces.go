package message

import (
	"context"

	"github.com/quillhq/quill-backend/internal/entity"
)

type ChatUsecase interface {
	SendMessage(ctx context.Context, userID, fileID, message string) (string, error)
	ListMessages(ctx context.Context, userID, fileID string, limit int) ([]*entity.Message, error)
}
