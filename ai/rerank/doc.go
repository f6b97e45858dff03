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


// Package rerank provides ai.Reranker implementations selected by a string
// discriminator:
//
//   - "cohere": the Cohere rerank API (requires an API key)
//   - "local":  a local cross-encoder served over the
//     text-embeddings-inference /rerank protocol
//   - "bge":    the same protocol, running a BGE reranker model
//
// Construction failures (missing credential, unreachable model) are expected
// and non-fatal for callers: search degrades by skipping the rerank stage.
package rerank
