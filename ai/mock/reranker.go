package mock

import (
	"context"
	"sort"

	"github.com/poiesic/semdex/core"
)

// Reranker is a test double for ai.Reranker.
type Reranker struct {
	// RerankFunc is called by Rerank if set.
	// If nil, the default scores candidates by descending text length.
	RerankFunc func(ctx context.Context, query string, results []*core.SearchResult, topN int) ([]*core.SearchResult, error)

	callCount int
}

// NewReranker creates a mock reranker with default deterministic behavior.
func NewReranker() *Reranker {
	return &Reranker{}
}

// Rerank applies the injected function, or the default deterministic scoring.
func (m *Reranker) Rerank(ctx context.Context, query string, results []*core.SearchResult, topN int) ([]*core.SearchResult, error) {
	m.callCount++

	if m.RerankFunc != nil {
		return m.RerankFunc(ctx, query, results, topN)
	}

	if topN <= 0 || topN > len(results) {
		topN = len(results)
	}

	reranked := make([]*core.SearchResult, len(results))
	copy(reranked, results)
	for _, result := range reranked {
		result.SetOriginalScore(result.Score)
		result.Score = float32(len(result.Chunk.Text))
	}
	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})
	return reranked[:topN], nil
}

// CallCount returns the number of times Rerank was called.
func (m *Reranker) CallCount() int {
	return m.callCount
}
