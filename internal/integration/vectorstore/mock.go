package vectorstore

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quillhq/quill-backend/internal/entity"
	"go.uber.org/zap"
)

// MockConnector returns canned passages for local runs without Weaviate.
type MockConnector struct{}

func NewMockConnector() *MockConnector {
	return &MockConnector{}
}

func (m *MockConnector) SimilaritySearch(ctx context.Context, namespace string, vector []float32, limit int) ([]entity.Passage, error) {
	ctxzap.Debug(ctx, "[MOCK] vector similarity search", zap.String("namespace", namespace))

	passages := []entity.Passage{
		{PageContent: "This is a mock passage from the uploaded document.", Source: "page 1"},
		{PageContent: "Another mock passage with different content.", Source: "page 2"},
	}
	if limit < len(passages) {
		passages = passages[:limit]
	}

	return passages, nil
}
