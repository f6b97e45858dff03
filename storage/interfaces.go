package storage

import (
	"context"

	"github.com/poiesic/semdex/core"
)

// SourceStat summarizes the stored chunks of a single source document.
type SourceStat struct {
	Source string
	Chunks int
}

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds chunks similar to the given vector.
	// Chunks whose metadata does not match the filter are skipped before
	// scoring; a nil or empty filter matches everything.
	// Returns up to limit results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, limit int, filter map[string]string) ([]*core.SearchResult, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing document chunks.
type ChunkRepository interface {
	Repository

	// AddChunks upserts one or more chunks to storage.
	// Chunk IDs are content-derived from (source, chunk index), so
	// re-ingesting a source overwrites its previous chunks.
	// Sets InsertedAt timestamp if not already set.
	// Returns the chunks with timestamps populated.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// UpdateChunks rewrites existing chunks in place.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunksBySource retrieves all chunks of a source document,
	// ordered by chunk index ascending.
	GetChunksBySource(ctx context.Context, source string) ([]*core.Chunk, error)

	// DeleteBySource removes all chunks of a source document.
	// Returns the number of chunks removed; an unknown source removes
	// zero chunks without error.
	DeleteBySource(ctx context.Context, source string) (int, error)

	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int, error)

	// ListSources returns per-source chunk counts, sorted by source name.
	ListSources(ctx context.Context) ([]SourceStat, error)
}
