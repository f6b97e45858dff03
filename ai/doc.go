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


// Package ai provides abstractions for the AI services used in semdex.
//
// This package defines interfaces for text embedding and second-pass
// relevance reranking. It follows the dependency inversion principle,
// allowing ingestion and search to depend on abstractions rather than
// concrete implementations.
//
// # Implementation Packages
//
//   - ai/openai: embedding via OpenAI-compatible APIs (langchaingo)
//   - ai/rerank: reranker providers (Cohere API, local cross-encoder servers)
//   - ai/mock: test doubles for unit testing without external services
//
// Production constructors return interface types to enforce abstraction;
// mock constructors return concrete types so tests can inject behavior and
// assert call counts.
package ai
