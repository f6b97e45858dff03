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


// Package openai provides the embedding implementation using
// OpenAI-compatible APIs.
//
// It uses the langchaingo library to talk to OpenAI or any
// OpenAI-compatible service (Ollama, LocalAI, vLLM). Inputs larger than the
// configured batch size are split into multiple requests; results are always
// reassembled in input order.
//
// # Usage
//
//	cfg := ai.NewConfig(
//	    ai.WithEmbeddingAPIKey(os.Getenv("OPENAI_API_KEY")),
//	)
//	embedder, err := openai.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vectors, err := embedder.EmbedTexts(ctx, texts)
package openai
