package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/semdex/ai"
	"github.com/poiesic/semdex/ai/rerank"
	"github.com/poiesic/semdex/core"
	"github.com/poiesic/semdex/storage"
)

const (
	// DefaultTopK is the number of results returned when the query
	// doesn't ask for a specific count.
	DefaultTopK = 5

	// overFetchFactor expands the candidate pool when a re-scoring pass
	// (rerank or keyword boost) needs room to reorder.
	overFetchFactor = 5
)

// RerankerFactory builds a reranker for a provider discriminator.
type RerankerFactory func(provider string) (ai.Reranker, error)

// Searcher provides fused semantic search over stored chunks.
type Searcher struct {
	chunkRepository storage.ChunkRepository
	embedder        ai.Embedder
	newReranker     RerankerFactory
	logger          *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithRerankerFactory overrides how rerankers are constructed per query.
func WithRerankerFactory(factory RerankerFactory) Option {
	return func(s *Searcher) error {
		s.newReranker = factory
		return nil
	}
}

// NewSearcher creates a new searcher. The config is used to construct
// rerankers on demand; nil means defaults.
func NewSearcher(
	chunkRepository storage.ChunkRepository,
	embedder ai.Embedder,
	config *ai.Config,
	opts ...Option,
) (*Searcher, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = ai.DefaultConfig()
	}

	s := &Searcher{
		chunkRepository: chunkRepository,
		embedder:        embedder,
		newReranker: func(provider string) (ai.Reranker, error) {
			return rerank.New(provider, config)
		},
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Query describes a single search invocation.
type Query struct {
	// Text is the natural-language query.
	Text string

	// TopK is the maximum number of results. Zero means DefaultTopK.
	TopK int

	// Filter restricts candidates to chunks whose metadata matches
	// every key/value pair.
	Filter map[string]string

	// RerankWith names the reranker provider for a second scoring pass.
	// Empty disables reranking.
	RerankWith string

	// KeywordBoost enables additive re-scoring of exact identifier-term
	// matches between query and chunk text.
	KeywordBoost bool
}

// Search runs the query and returns up to TopK results, ranked by
// relevance score.
func (s *Searcher) Search(ctx context.Context, q Query) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, q, nil)
}

// SearchWithMonitor runs the query with monitoring. The monitor receives
// callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, q Query, monitor SearchMonitor) ([]*core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	topK := q.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	monitor.Start(q.Text)

	// Expand the candidate pool when any re-scoring pass will run, so it
	// has material to reorder within.
	fetchK := topK
	if q.RerankWith != "" || q.KeywordBoost {
		fetchK = topK * overFetchFactor
	}

	embedding, err := s.embedder.EmbedText(ctx, q.Text)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", q.Text, "err", err)
		return nil, err
	}

	candidates, err := s.chunkRepository.FindSimilar(ctx, core.NormalizeVector(embedding), fetchK, q.Filter)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}
	monitor.AfterVectorSearch(candidates)

	if q.RerankWith != "" && len(candidates) > 0 {
		candidates = s.rerank(ctx, q, candidates, monitor)
	}

	if q.KeywordBoost && len(candidates) > 0 {
		candidates = ApplyKeywordBoost(q.Text, candidates)
		monitor.AfterKeywordBoost(candidates)
	}

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	monitor.Finish(candidates)

	return candidates, nil
}

// rerank runs the second-pass scorer. Reranker trouble never fails the
// search: the candidates keep their vector-similarity order.
func (s *Searcher) rerank(ctx context.Context, q Query, candidates []*core.SearchResult, monitor SearchMonitor) []*core.SearchResult {
	reranker, err := s.newReranker(q.RerankWith)
	if err != nil {
		s.logger.Warn("reranking disabled", "provider", q.RerankWith, "err", err)
		monitor.RerankSkipped(q.RerankWith, err)
		return candidates
	}

	// Ask the reranker to keep the whole candidate set, so a following
	// keyword boost still has headroom to reorder.
	reranked, err := reranker.Rerank(ctx, q.Text, candidates, len(candidates))
	if err != nil {
		s.logger.Warn("rerank call failed, keeping vector order", "provider", q.RerankWith, "err", err)
		monitor.RerankSkipped(q.RerankWith, err)
		return candidates
	}

	monitor.AfterRerank(reranked)
	return reranked
}
