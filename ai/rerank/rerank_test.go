package rerank

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semdex/ai"
	"github.com/poiesic/semdex/core"
)

func candidates(texts ...string) []*core.SearchResult {
	results := make([]*core.SearchResult, len(texts))
	for i, text := range texts {
		results[i] = &core.SearchResult{
			Chunk: &core.Chunk{Text: text, Source: "test.md", ChunkIndex: i},
			Score: 0.5,
		}
	}
	return results
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("fancy", ai.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ai.ErrUnknownProvider))
}

func TestNewCohereRequiresKey(t *testing.T) {
	cfg := ai.DefaultConfig()
	_, err := New(ProviderCohere, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ai.ErrMissingAPIKey))

	cfg.CohereAPIKey = "ck"
	reranker, err := New(ProviderCohere, cfg)
	require.NoError(t, err)
	assert.NotNil(t, reranker)
}

func TestNewLocalProviders(t *testing.T) {
	cfg := ai.DefaultConfig()

	local, err := New(ProviderLocal, cfg)
	require.NoError(t, err)
	assert.NotNil(t, local)

	bge, err := New(ProviderBGE, cfg)
	require.NoError(t, err)
	assert.NotNil(t, bge)
}

func TestCrossEncoderRerank(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rerank", r.URL.Path)

		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "remap query", req.Query)
		require.Len(t, req.Texts, 3)

		// Score the middle candidate highest.
		items := []rerankResponseItem{
			{Index: 0, Score: 0.1},
			{Index: 1, Score: 0.9},
			{Index: 2, Score: 0.4},
		}
		json.NewEncoder(w).Encode(items)
	}))
	defer server.Close()

	reranker, err := NewCrossEncoder(server.URL)
	require.NoError(t, err)

	results := candidates("first", "second", "third")
	reranked, err := reranker.Rerank(context.Background(), "remap query", results, 2)
	require.NoError(t, err)
	require.Len(t, reranked, 2)

	assert.Equal(t, "second", reranked[0].Chunk.Text)
	assert.InDelta(t, 0.9, reranked[0].Score, 1e-6)
	assert.True(t, reranked[0].HasOriginalScore)
	assert.InDelta(t, 0.5, reranked[0].OriginalScore, 1e-6)

	assert.Equal(t, "third", reranked[1].Chunk.Text)
}

func TestCrossEncoderEmptyInput(t *testing.T) {
	reranker, err := NewCrossEncoder("http://localhost:1")
	require.NoError(t, err)

	out, err := reranker.Rerank(context.Background(), "q", nil, 5)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCrossEncoderServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	reranker, err := NewCrossEncoder(server.URL)
	require.NoError(t, err)

	_, err = reranker.Rerank(context.Background(), "q", candidates("a"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
