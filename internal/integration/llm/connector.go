package llm

import (
	"context"
	"fmt"
	"math"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quillhq/quill-backend/internal/config"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Connector calls the OpenAI chat completion API.
type Connector struct {
	client *openai.Client
	model  string
}

func NewConnector(cfg config.OpenAIConfig) *Connector {
	return &Connector{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.ChatModel,
	}
}

// Complete requests a single non-streaming completion for a system + user
// message pair. Returns an empty string (not an error) when the model
// produces no content; the caller decides the substitute text.
func (c *Connector) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctxzap.Info(ctx, "requesting chat completion", zap.String("model", c.model))

	req := openai.ChatCompletionRequest{
		Model: c.model,
		// go-openai omits a zero temperature from the request body, so send
		// the smallest value that still serializes.
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		ctxzap.Warn(ctx, "chat completion returned no choices")
		return "", nil
	}

	content := resp.Choices[0].Message.Content
	ctxzap.Info(ctx, "chat completion received",
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("content_length", len(content)),
	)

	return content, nil
}
