package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/semdex/ai"
	"github.com/poiesic/semdex/chunk"
	"github.com/poiesic/semdex/core"
	"github.com/poiesic/semdex/storage"
)

const (
	// DefaultTokenBudget is the per-chunk token budget.
	DefaultTokenBudget = 500

	// DefaultOverlap is the token overlap shared between neighboring chunks.
	DefaultOverlap = 50

	defaultBatchSize = 100
)

// Pipeline orchestrates the ingestion of document files.
// It manages concurrent batch embedding of chunked documents.
type Pipeline struct {
	chunkRepository storage.ChunkRepository
	embedder        ai.Embedder
	pool            *ants.Pool
	tokenCounter    *chunk.TokenCounter
	budget          int
	overlap         int
	batchSize       int
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithTokenCounter sets the token counter used for chunking.
// Default is the shared cl100k_base counter.
func WithTokenCounter(tc *chunk.TokenCounter) Option {
	return func(p *Pipeline) error {
		p.tokenCounter = tc
		return nil
	}
}

// WithTokenBudget sets the per-chunk token budget. Minimum 1.
func WithTokenBudget(budget int) Option {
	return func(p *Pipeline) error {
		if budget < 1 {
			budget = 1
		}
		p.budget = budget
		return nil
	}
}

// WithOverlap sets the token overlap between neighboring chunks.
// Zero disables overlap.
func WithOverlap(overlap int) Option {
	return func(p *Pipeline) error {
		if overlap < 0 {
			overlap = 0
		}
		p.overlap = overlap
		return nil
	}
}

// WithBatchSize sets how many chunk texts are embedded per batch. Minimum 1.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunkRepository storage.ChunkRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunkRepository: chunkRepository,
		embedder:        embedder,
		pool:            pool,
		budget:          DefaultTokenBudget,
		overlap:         DefaultOverlap,
		batchSize:       defaultBatchSize,
		logger:          slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	if p.tokenCounter == nil {
		tc, err := chunk.Default()
		if err != nil {
			p.Release()
			return nil, err
		}
		p.tokenCounter = tc
	}

	return p, nil
}

// Report summarizes a completed ingestion run.
type Report struct {
	Source string
	Pages  int
	Chunks int
}

// IngestFile reads, chunks, embeds and stores a document file.
// The stored source name is the file's base name; re-ingesting a file
// replaces its previous chunks. The optional meta map is attached to
// every chunk and can be matched by search filters.
func (p *Pipeline) IngestFile(ctx context.Context, path string, meta map[string]string) (*Report, error) {
	source := filepath.Base(path)
	logger := p.logger.With("source", source)

	pages, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	chunks := p.buildChunks(source, pages, meta)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}
	logger.Debug("chunked document", "pages", len(pages), "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := p.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}
	for i := range chunks {
		chunks[i].Vector = vectors[i]
	}

	// Clear any previous version of this document first: a shorter
	// re-ingest must not leave stale tail chunks behind.
	if _, err := p.chunkRepository.DeleteBySource(ctx, source); err != nil {
		return nil, err
	}
	if _, err := p.chunkRepository.AddChunks(ctx, chunks...); err != nil {
		return nil, err
	}

	logger.Info("ingested document", "chunks", len(chunks))
	return &Report{Source: source, Pages: len(pages), Chunks: len(chunks)}, nil
}

// buildChunks turns page texts into chunk records with a strictly
// increasing chunk index across the whole document.
func (p *Pipeline) buildChunks(source string, pages []PageText, meta map[string]string) []*core.Chunk {
	var chunks []*core.Chunk
	index := 0

	appendChunk := func(text string, page int, section string) {
		chunks = append(chunks, &core.Chunk{
			Text:       text,
			Source:     source,
			Page:       page,
			Section:    core.TruncateSectionHeader(section),
			ChunkIndex: index,
			Extra:      meta,
		})
		index++
	}

	splitter := chunk.NewSplitter(p.tokenCounter, p.budget)
	sectionChunker := chunk.NewSectionChunker(p.tokenCounter, p.budget)

	for _, page := range pages {
		if page.Page > 0 {
			// Paged formats: chunk each page independently, no section pass.
			pieces := chunk.AddOverlap(p.tokenCounter, splitter.Split(page.Text), p.overlap)
			for _, piece := range pieces {
				appendChunk(piece, page.Page, "")
			}
			continue
		}

		cleaned := chunk.CleanDocument(page.Text)
		for _, section := range chunk.Segment(cleaned) {
			pieces := chunk.AddOverlap(p.tokenCounter, sectionChunker.Chunk(section), p.overlap)
			for _, piece := range pieces {
				appendChunk(piece, 0, section.Header)
			}
		}
	}

	return chunks
}

// embedAll embeds texts in batches on the worker pool. Batch results are
// written to index-addressed slots, so input order is preserved regardless
// of completion order. Vectors are normalized to unit length.
func (p *Pipeline) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for start := 0; start < len(texts); start += p.batchSize {
		end := start + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batchStart, batch := start, texts[start:end]
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()

			embeddings, err := p.embedder.EmbedTexts(ctx, batch)
			if err != nil {
				setErr(err)
				return
			}
			if len(embeddings) != len(batch) {
				setErr(fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings)))
				return
			}
			for i, vector := range embeddings {
				vectors[batchStart+i] = core.NormalizeVector(vector)
			}
		}); err != nil {
			wg.Done()
			return nil, err
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
