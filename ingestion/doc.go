// Package ingestion provides pipeline orchestration for turning documents
// into stored, embedded chunks.
//
// The Pipeline type manages the ingestion workflow for a document file:
//   - Reading the file (PDF page-by-page, text/markdown as a whole)
//   - Chunking within a token budget, with neighbor overlap
//   - Generating embeddings in batches on a worker pool
//   - Upserting the embedded chunks to storage
//
// Embedding batches run concurrently, but IngestFile itself is synchronous:
// it returns after the document is fully stored or an error occurred.
package ingestion
