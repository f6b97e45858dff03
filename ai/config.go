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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "https://api.openai.com/v1", or
	// "http://localhost:11434/v1" for a local OpenAI-compatible server.
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-small", "embeddinggemma"
	EmbeddingModel string

	// EmbeddingAPIKey authenticates against the embedding service.
	// Local OpenAI-compatible servers usually accept any value.
	EmbeddingAPIKey string

	// EmbeddingBatchSize is the maximum number of texts sent to the
	// embedding service per request, to respect remote size limits.
	// Default: 100
	EmbeddingBatchSize int

	// CohereAPIKey authenticates against the Cohere rerank API.
	// Required only when the "cohere" rerank provider is selected.
	CohereAPIKey string

	// LocalRerankHost is the base URL of a local cross-encoder rerank
	// service (text-embeddings-inference protocol) for the "local" provider.
	LocalRerankHost string

	// BGERerankHost is the base URL of a local rerank service running a BGE
	// reranker model, for the "bge" provider.
	BGERerankHost string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingAPIKey sets the embedding service API key.
func WithEmbeddingAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingAPIKey = key
	}
}

// WithEmbeddingBatchSize sets the per-request embedding batch size.
func WithEmbeddingBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingBatchSize = size
	}
}

// WithCohereAPIKey sets the Cohere rerank API key.
func WithCohereAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.CohereAPIKey = key
	}
}

// WithLocalRerankHost sets the local rerank service host URL.
func WithLocalRerankHost(host string) ConfigOption {
	return func(c *Config) {
		c.LocalRerankHost = host
	}
}

// WithBGERerankHost sets the BGE rerank service host URL.
func WithBGERerankHost(host string) ConfigOption {
	return func(c *Config) {
		c.BGERerankHost = host
	}
}

// DefaultConfig returns a Config with defaults for the OpenAI embedding API
// and local rerank services.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:      "https://api.openai.com/v1",
		EmbeddingModel:     "text-embedding-3-small",
		EmbeddingBatchSize: 100,
		LocalRerankHost:    "http://localhost:8080",
		BGERerankHost:      "http://localhost:8081",
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithEmbeddingHost("http://localhost:11434/v1"),
//       WithEmbeddingModel("embeddinggemma"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the embedding host if missing, which is required
// by OpenAI-compatible APIs (OpenAI, Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.EmbeddingBatchSize <= 0 {
		c.EmbeddingBatchSize = 100
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}
