package rerank

import (
	"context"
	"fmt"
	"log/slog"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/poiesic/semdex/ai"
	"github.com/poiesic/semdex/core"
)

// cohereModel is the rerank model used against the Cohere API.
const cohereModel = "rerank-v3.5"

// Cohere implements ai.Reranker using Cohere's rerank API.
type Cohere struct {
	client *cohereclient.Client
	logger *slog.Logger
}

var _ ai.Reranker = (*Cohere)(nil)

// NewCohere creates a Cohere reranker. Returns ai.ErrMissingAPIKey when the
// key is empty; callers treat this as a degraded-service condition, not a
// fatal error.
func NewCohere(apiKey string) (ai.Reranker, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: COHERE_API_KEY not set", ai.ErrMissingAPIKey)
	}
	return &Cohere{
		client: cohereclient.NewClient(cohereclient.WithToken(apiKey)),
		logger: slog.Default().With("component", "cohere-reranker"),
	}, nil
}

// Rerank scores the candidates against the query and returns up to topN of
// them ordered by relevance. The model's relevance score replaces Score; the
// prior value is preserved via SetOriginalScore.
func (c *Cohere) Rerank(ctx context.Context, query string, results []*core.SearchResult, topN int) ([]*core.SearchResult, error) {
	if len(results) == 0 {
		return results, nil
	}
	if topN <= 0 || topN > len(results) {
		topN = len(results)
	}

	documents := make([]string, len(results))
	for i, result := range results {
		documents[i] = result.Chunk.Text
	}

	c.logger.Debug("reranking candidates", "count", len(documents), "top_n", topN)

	response, err := c.client.V2.Rerank(ctx, &cohere.V2RerankRequest{
		Model:     cohereModel,
		Query:     query,
		Documents: documents,
		TopN:      &topN,
	})
	if err != nil {
		return nil, err
	}

	reranked := make([]*core.SearchResult, 0, len(response.Results))
	for _, item := range response.Results {
		result := results[item.Index]
		result.SetOriginalScore(result.Score)
		result.Score = float32(item.RelevanceScore)
		reranked = append(reranked, result)
	}

	return reranked, nil
}
