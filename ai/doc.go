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


// Package ai provides abstractions for the model services used by procsuggest.
//
// The package defines the interfaces the suggestion pipeline depends on:
//
//   - Embedder: Generates vector embeddings from text
//   - ModelLoader: Loads one embedding model and hands back an Embedder
//   - ArtifactChecker: Optional pre-load check for on-disk model files
//   - LinkEnricher: Optional post-processing of generated reference links
//
// # Implementation Packages
//
//   - ai/local: The fine-tuned domain model, exported to ONNX and run in process
//   - ai/openai: The public fallback model and the link enricher, served over
//     OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without model files or services
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithPrimaryModelDir("/models/procedures"))
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	primary := local.NewLoader(cfg)
//	fallback, err := openai.NewEmbeddingLoader(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	provider, err := embedding.NewProvider(primary, fallback)
package ai
