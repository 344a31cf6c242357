package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quillhq/quill-backend/internal/entity"
	"github.com/quillhq/quill-backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// ChatUsecase implements the message pipeline: ownership check, user-turn
// persistence, history + passage retrieval, grounded completion and
// assistant-turn persistence.
type ChatUsecase struct {
	fileRepo    repository.FileRepository
	messageRepo repository.MessageRepository
	llm         LLMConnector
	embedder    EmbeddingConnector
	vectors     VectorSearcher
}

// NewUsecase creates a new chat use case
func NewUsecase(
	fileRepo repository.FileRepository,
	messageRepo repository.MessageRepository,
	llm LLMConnector,
	embedder EmbeddingConnector,
	vectors VectorSearcher,
) *ChatUsecase {
	return &ChatUsecase{
		fileRepo:    fileRepo,
		messageRepo: messageRepo,
		llm:         llm,
		embedder:    embedder,
		vectors:     vectors,
	}
}

// SendMessage answers a user's question about a file and returns the
// assistant's text.
//
// The user turn is persisted before retrieval starts, so the history read
// observes the current question. If anything fails after that write, the
// user turn stays in place; there are no compensating deletes.
func (uc *ChatUsecase) SendMessage(ctx context.Context, userID, fileID, message string) (string, error) {
	file, err := uc.fileRepo.GetFileByIDAndUser(ctx, fileID, userID)
	if err != nil {
		return "", err
	}

	userMsg := entity.Message{
		ID:            uuid.New().String(),
		FileID:        file.ID,
		UserID:        userID,
		Text:          message,
		IsUserMessage: true,
	}
	if _, err := uc.messageRepo.CreateMessage(ctx, userMsg); err != nil {
		return "", fmt.Errorf("persist user message: %w", err)
	}

	ctxzap.Info(ctx, "user message persisted", zap.String("file_id", file.ID))

	// The two reads are independent; both must observe the user turn above.
	var history []*entity.Message
	var passages []entity.Passage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = uc.messageRepo.ListRecentByFile(gctx, file.ID, historyLimit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		vector, err := uc.embedder.EmbedQuery(gctx, message)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		// The namespace is the file id; nothing else is ever queried.
		passages, err = uc.vectors.SimilaritySearch(gctx, file.ID, vector, contextLimit)
		if err != nil {
			return fmt.Errorf("similarity search: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "context retrieved",
		zap.Int("history_turns", len(history)),
		zap.Int("passages", len(passages)),
	)

	system, user := buildPrompt(history, passages, message)

	answer, err := uc.llm.Complete(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}
	if answer == "" {
		answer = fallbackResponse
	}

	assistantMsg := entity.Message{
		ID:            uuid.New().String(),
		FileID:        file.ID,
		UserID:        userID,
		Text:          answer,
		IsUserMessage: false,
	}
	if _, err := uc.messageRepo.CreateMessage(ctx, assistantMsg); err != nil {
		return "", fmt.Errorf("persist assistant message: %w", err)
	}

	ctxzap.Info(ctx, "assistant message persisted", zap.String("file_id", file.ID))

	return answer, nil
}

// ListMessages returns the most recent messages for a file in ascending
// created_at order. Ownership rules match SendMessage.
func (uc *ChatUsecase) ListMessages(ctx context.Context, userID, fileID string, limit int) ([]*entity.Message, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	file, err := uc.fileRepo.GetFileByIDAndUser(ctx, fileID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := uc.messageRepo.ListRecentByFile(ctx, file.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}
