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


// Package openai provides model services over OpenAI-compatible APIs.
//
// It uses the langchaingo library to talk to OpenAI or compatible servers
// (text-embeddings-inference, Ollama, LocalAI, vLLM) and supplies:
//
//   - EmbeddingLoader: an ai.ModelLoader for the public multilingual fallback model
//   - LinkEnricher: an ai.LinkEnricher that asks a chat model for the official
//     page of a procedure
//
// # Usage
//
//	cfg := ai.NewConfig(ai.WithEmbeddingHost("http://localhost:8080"))  // /v1 added automatically
//
//	fallback, err := openai.NewEmbeddingLoader(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	embedder, err := fallback.Load(ctx)
//
//	enricher, err := openai.NewLinkEnricher(cfg)
//	link, err := enricher.EnrichLink(ctx, record, generated)
package openai
