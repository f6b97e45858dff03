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


// Package search provides fused semantic search over stored chunks.
//
// The Searcher type implements a multi-stage query pipeline:
//   - Vector similarity search, over-fetched when re-scoring is requested
//   - Optional second-pass reranking through an external reranker
//   - Optional keyword boost rewarding exact identifier-term matches
//
// A reranker that cannot be built or reached never fails the query; the
// search degrades to vector order with a warning.
package search
