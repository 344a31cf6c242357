package embedding

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quillhq/quill-backend/internal/config"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Connector produces query embeddings via the OpenAI embeddings API.
type Connector struct {
	client *openai.Client
	model  string
}

func NewConnector(cfg config.OpenAIConfig) *Connector {
	return &Connector{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.EmbeddingModel,
	}
}

// EmbedQuery embeds a single query string.
func (c *Connector) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	ctxzap.Debug(ctx, "embedding query", zap.String("model", c.model))

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embeddings response contains no data")
	}

	return resp.Data[0].Embedding, nil
}
