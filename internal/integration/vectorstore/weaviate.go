package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quillhq/quill-backend/internal/config"
	"github.com/quillhq/quill-backend/internal/entity"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
	"go.uber.org/zap"
)

// Connector runs similarity searches against a single Weaviate class. The
// class plays the role of the vector index; per-file namespaces are enforced
// with a fileId filter so no query can cross file boundaries.
type Connector struct {
	client *weaviate.Client
	class  string
}

func NewConnector(cfg config.VectorStoreConfig) (*Connector, error) {
	parsedURL, err := url.Parse(cfg.URL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid weaviate URL %q: %w", cfg.URL, err)
	}

	clientConf := weaviate.Config{
		Host:   parsedURL.Host,
		Scheme: parsedURL.Scheme,
	}
	if cfg.APIKey != "" {
		clientConf.AuthConfig = auth.ApiKey{Value: cfg.APIKey}
	}

	client, err := weaviate.NewClient(clientConf)
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	return &Connector{
		client: client,
		class:  cfg.Class,
	}, nil
}

// passageResult mirrors the GraphQL response shape for one retrieved object.
type passageResult struct {
	PageContent string `json:"pageContent"`
	Source      string `json:"source"`
	Additional  struct {
		Distance *float32 `json:"distance"`
	} `json:"_additional"`
}

// SimilaritySearch returns up to limit passages from the given namespace,
// ranked by the store's native distance to the query vector.
func (c *Connector) SimilaritySearch(ctx context.Context, namespace string, vector []float32, limit int) ([]entity.Passage, error) {
	ctxzap.Debug(ctx, "vector similarity search",
		zap.String("class", c.class),
		zap.String("namespace", namespace),
		zap.Int("limit", limit),
	)

	nearVector := c.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	namespaceFilter := filters.Where().
		WithPath([]string{"fileId"}).
		WithOperator(filters.Equal).
		WithValueString(namespace)

	fields := []graphql.Field{
		{Name: "pageContent"},
		{Name: "source"},
		{Name: "_additional", Fields: []graphql.Field{
			{Name: "distance"},
		}},
	}

	result, err := c.client.GraphQL().Get().
		WithClassName(c.class).
		WithFields(fields...).
		WithWhere(namespaceFilter).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate search failed: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("weaviate search failed: %s", graphQLErrorMessage(result))
	}

	passages, err := c.parseSearchResults(result)
	if err != nil {
		return nil, err
	}

	ctxzap.Debug(ctx, "vector search complete", zap.Int("passages", len(passages)))
	return passages, nil
}

// parseSearchResults converts the dynamic GraphQL payload into passages.
// The Get result is keyed by class name, so the lookup uses c.class.
func (c *Connector) parseSearchResults(resp *models.GraphQLResponse) ([]entity.Passage, error) {
	getData, ok := resp.Data["Get"]
	if !ok {
		return nil, fmt.Errorf("weaviate response has no Get section")
	}

	raw, err := json.Marshal(getData)
	if err != nil {
		return nil, fmt.Errorf("marshal weaviate response: %w", err)
	}

	var byClass map[string][]passageResult
	if err := json.Unmarshal(raw, &byClass); err != nil {
		return nil, fmt.Errorf("parse weaviate response: %w", err)
	}

	results := byClass[c.class]
	passages := make([]entity.Passage, 0, len(results))
	for _, r := range results {
		passages = append(passages, entity.Passage{
			PageContent: r.PageContent,
			Source:      r.Source,
		})
	}

	return passages, nil
}

func graphQLErrorMessage(resp *models.GraphQLResponse) string {
	if len(resp.Errors) == 0 || resp.Errors[0] == nil {
		return "unknown error"
	}
	return resp.Errors[0].Message
}
