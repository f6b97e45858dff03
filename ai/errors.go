package ai

import "errors"

var (
	// ErrMissingAPIKey indicates a provider requires a credential that was
	// not supplied. This is a configuration error: surfaced immediately,
	// never retried.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrUnknownProvider indicates an unrecognized provider discriminator.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrEmbeddingCountMismatch indicates the embedding service returned a
	// different number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
