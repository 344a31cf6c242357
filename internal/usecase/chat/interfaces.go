package chat

import (
	"context"

	"github.com/quillhq/quill-backend/internal/entity"
)

type LLMConnector interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type EmbeddingConnector interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type VectorSearcher interface {
	SimilaritySearch(ctx context.Context, namespace string, vector []float32, limit int) ([]entity.Passage, error)
}
