package ai

import (
	"context"

	"github.com/poiesic/semdex/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single query text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple texts in a batch.
	// Implementations split large inputs into provider-sized batches
	// internally. The returned slice contains embeddings in the same order
	// as the input texts, always.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Reranker applies a second-pass relevance model to candidate results.
// Rerank replaces each result's Score with the model's relevance score and
// preserves the prior value via SetOriginalScore. It returns up to topN
// results ordered by the new score.
// Implementations must be thread-safe for concurrent use.
type Reranker interface {
	Rerank(ctx context.Context, query string, results []*core.SearchResult, topN int) ([]*core.SearchResult, error)
}
