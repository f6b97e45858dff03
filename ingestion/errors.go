package ingestion

import "errors"

var (
	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrUnsupportedFile is returned for file types the pipeline cannot read.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrEmptyDocument is returned when a file yields no chunkable text.
	ErrEmptyDocument = errors.New("no text extracted from document")
)
