package llm

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a canned chat model for local runs without an API key.
type MockConnector struct{}

func NewMockConnector() *MockConnector {
	return &MockConnector{}
}

func (m *MockConnector) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] chat completion", zap.Int("prompt_length", len(userPrompt)))

	return "This is a mock answer. The document context and previous conversation " +
		"were received, but no language model was called.", nil
}
