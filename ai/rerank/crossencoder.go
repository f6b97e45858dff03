package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/semdex/ai"
	"github.com/poiesic/semdex/core"
)

// CrossEncoder implements ai.Reranker against a local cross-encoder service
// speaking the text-embeddings-inference /rerank protocol. Both the "local"
// lightweight model and the heavier BGE model use this client; only the host
// (and the model served behind it) differ.
type CrossEncoder struct {
	host   string
	client *http.Client
	logger *slog.Logger
}

var _ ai.Reranker = (*CrossEncoder)(nil)

// NewCrossEncoder creates a reranker backed by the rerank service at host.
func NewCrossEncoder(host string) (ai.Reranker, error) {
	if host == "" {
		return nil, fmt.Errorf("rerank: host is required")
	}
	return &CrossEncoder{
		host:   strings.TrimSuffix(host, "/"),
		client: &http.Client{Timeout: 60 * time.Second},
		logger: slog.Default().With("component", "cross-encoder-reranker"),
	}, nil
}

type rerankRequest struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

type rerankResponseItem struct {
	Index int     `json:"index"`
	Score float32 `json:"score"`
}

// Rerank scores the candidates against the query and returns up to topN of
// them ordered by relevance.
func (r *CrossEncoder) Rerank(ctx context.Context, query string, results []*core.SearchResult, topN int) ([]*core.SearchResult, error) {
	if len(results) == 0 {
		return results, nil
	}
	if topN <= 0 || topN > len(results) {
		topN = len(results)
	}

	texts := make([]string, len(results))
	for i, result := range results {
		texts[i] = result.Chunk.Text
	}

	body, err := json.Marshal(rerankRequest{Query: query, Texts: texts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.host+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	r.logger.Debug("reranking candidates", "count", len(texts), "host", r.host)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rerank: service returned %d: %s", resp.StatusCode, snippet)
	}

	var items []rerankResponseItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > topN {
		items = items[:topN]
	}

	reranked := make([]*core.SearchResult, 0, len(items))
	for _, item := range items {
		if item.Index < 0 || item.Index >= len(results) {
			return nil, fmt.Errorf("rerank: service returned out-of-range index %d", item.Index)
		}
		result := results[item.Index]
		result.SetOriginalScore(result.Score)
		result.Score = item.Score
		reranked = append(reranked, result)
	}

	return reranked, nil
}
