package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkIDFor derives the stable ID for a chunk of a document.
// Re-ingesting the same document produces the same IDs, so existing
// chunks are overwritten rather than duplicated.
func ChunkIDFor(source string, chunkIndex int) ID {
	return IDFromContent(source + "#" + strconv.Itoa(chunkIndex))
}

// SectionHeaderMaxLen caps the section header stored in chunk metadata.
const SectionHeaderMaxLen = 100

// Chunk is a bounded-size unit of document text with retrieval metadata.
// Vector is populated during ingestion, before the chunk reaches storage.
type Chunk struct {
	Id         ID
	Text       string
	Source     string            // document identifier (file name)
	Page       int               // 1-based page number, 0 for non-paged sources
	Section    string            // section header, empty for paged sources
	ChunkIndex int               // strictly increasing in emission order within a document
	Extra      map[string]string // caller-supplied metadata
	Vector     []float32
	InsertedAt time.Time
}

// MetadataValue resolves a metadata key against the chunk's fields.
// The well-known keys "source", "page", "section" and "chunk_index" map to
// the typed fields; anything else is looked up in Extra.
func (c *Chunk) MetadataValue(key string) (string, bool) {
	switch key {
	case "source":
		return c.Source, true
	case "page":
		if c.Page == 0 {
			return "", false
		}
		return strconv.Itoa(c.Page), true
	case "section":
		return c.Section, true
	case "chunk_index":
		return strconv.Itoa(c.ChunkIndex), true
	}
	v, ok := c.Extra[key]
	return v, ok
}

// MatchesFilter reports whether every key=value pair in filter matches the
// chunk's metadata. A nil or empty filter matches everything.
func (c *Chunk) MatchesFilter(filter map[string]string) bool {
	for key, want := range filter {
		got, ok := c.MetadataValue(key)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Section is a transient header-delimited slice of a structured document.
// Produced by the segmenter and consumed immediately by chunking; never persisted.
type Section struct {
	Header string
	Level  int // 1-4 for real headers, 0 for preamble before the first header
	Lines  []string
}

// SearchResult represents a single query hit with its relevance score.
// Score is similarity-like: higher is better. OriginalScore holds the score
// from immediately before the first re-scoring step (rerank or keyword boost)
// and is never overwritten once set.
type SearchResult struct {
	Chunk            *Chunk
	Score            float32
	OriginalScore    float32
	HasOriginalScore bool
	KeywordBoost     float32
}

// SetOriginalScore records the pre-transformation score, first writer wins.
func (r *SearchResult) SetOriginalScore(score float32) {
	if r.HasOriginalScore {
		return
	}
	r.OriginalScore = score
	r.HasOriginalScore = true
}
