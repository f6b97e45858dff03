// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/semdex/ai/mock"
	"github.com/poiesic/semdex/core"
	"github.com/poiesic/semdex/storage"
	"github.com/poiesic/semdex/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.ChunkRepository {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = backend.Close()
	})

	return repo
}

func seedChunks(t *testing.T, repo storage.ChunkRepository, source string, count int) {
	t.Helper()

	chunks := make([]*core.Chunk, count)
	for i := range chunks {
		chunks[i] = &core.Chunk{
			Text:       fmt.Sprintf("%s chunk %d", source, i),
			Source:     source,
			ChunkIndex: i,
			Vector:     []float32{1, 0, 0},
		}
	}

	_, err := repo.AddChunks(context.Background(), chunks...)
	require.NoError(t, err)
}

func TestChunkIteratorVisitsAllChunks(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, "alpha.md", 5)
	seedChunks(t, repo, "beta.md", 3)

	iterator := NewChunkIterator(repo, 2)

	var batches int
	var visited []string
	err := iterator.ForEach(context.Background(), func(chunks []*core.Chunk) error {
		batches++
		assert.LessOrEqual(t, len(chunks), 2)
		for _, chunk := range chunks {
			visited = append(visited, chunk.Text)
		}
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, visited, 8)
	// 5 chunks at batch size 2 -> 3 batches, 3 chunks -> 2 batches
	assert.Equal(t, 5, batches)
}

func TestChunkIteratorStopsOnError(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, "alpha.md", 4)

	iterator := NewChunkIterator(repo, 2)

	wantErr := errors.New("batch failed")
	batches := 0
	err := iterator.ForEach(context.Background(), func(chunks []*core.Chunk) error {
		batches++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, batches)
}

func TestChunkIteratorRespectsContext(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, "alpha.md", 4)

	ctx, cancel := context.WithCancel(context.Background())

	iterator := NewChunkIterator(repo, 2)
	err := iterator.ForEach(ctx, func(chunks []*core.Chunk) error {
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchProcessorUpdatesVectors(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, "alpha.md", 3)

	embedder := mock.NewEmbedder()
	processor := NewBatchProcessor(repo, embedder, 3, time.Millisecond)

	chunks, err := repo.GetChunksBySource(context.Background(), "alpha.md")
	require.NoError(t, err)

	err = processor.Process(context.Background(), chunks)
	require.NoError(t, err)

	updated, err := repo.GetChunksBySource(context.Background(), "alpha.md")
	require.NoError(t, err)

	for _, chunk := range updated {
		want := core.NormalizeVector(mock.DeterministicVector(chunk.Text, 32))
		assert.Equal(t, want, chunk.Vector)
	}
}

func TestBatchProcessorRetriesTransientFailures(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, "alpha.md", 2)

	attempts := 0
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("rate limited")
		}
		embeddings := make([][]float32, len(texts))
		for i, text := range texts {
			embeddings[i] = mock.DeterministicVector(text, 32)
		}
		return embeddings, nil
	}

	processor := NewBatchProcessor(repo, embedder, 3, time.Millisecond)

	chunks, err := repo.GetChunksBySource(context.Background(), "alpha.md")
	require.NoError(t, err)

	err = processor.Process(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestBatchProcessorCountMismatch(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, "alpha.md", 2)

	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}

	processor := NewBatchProcessor(repo, embedder, 1, time.Millisecond)

	chunks, err := repo.GetChunksBySource(context.Background(), "alpha.md")
	require.NoError(t, err)

	err = processor.Process(context.Background(), chunks)
	assert.ErrorContains(t, err, "mismatch")
}

func TestBatchProcessorEmptyBatch(t *testing.T) {
	repo := newTestRepo(t)
	embedder := mock.NewEmbedder()
	processor := NewBatchProcessor(repo, embedder, 3, time.Millisecond)

	err := processor.Process(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestReembedderRun(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, "alpha.md", 5)
	seedChunks(t, repo, "beta.md", 3)

	embedder := mock.NewEmbedder()

	var buf bytes.Buffer
	config := DefaultConfig()
	config.BatchSize = 4
	config.RetryDelay = time.Millisecond

	reembedder := NewReembedder(repo, embedder, config, &buf)
	err := reembedder.Run(context.Background())
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Starting reembedding of 8 chunks")
	assert.Contains(t, output, "Reembedding complete")

	chunks, err := repo.GetChunksBySource(context.Background(), "beta.md")
	require.NoError(t, err)
	for _, chunk := range chunks {
		want := core.NormalizeVector(mock.DeterministicVector(chunk.Text, 32))
		assert.Equal(t, want, chunk.Vector)
	}
}

func TestReembedderRunEmptyDatabase(t *testing.T) {
	repo := newTestRepo(t)
	embedder := mock.NewEmbedder()

	var buf bytes.Buffer
	reembedder := NewReembedder(repo, embedder, nil, &buf)

	err := reembedder.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No chunks found")
	assert.Equal(t, 0, embedder.CallCount())
}

func TestReembedderStopsOnEmbeddingFailure(t *testing.T) {
	repo := newTestRepo(t)
	seedChunks(t, repo, "alpha.md", 2)

	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("provider down")
	}

	var buf bytes.Buffer
	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = time.Millisecond

	reembedder := NewReembedder(repo, embedder, config, &buf)
	err := reembedder.Run(context.Background())
	assert.ErrorContains(t, err, "provider down")
}
