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


package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/procsuggest/ai"
	"github.com/poiesic/procsuggest/core"
)

// probeText is embedded once at load time to confirm the model is served.
const probeText = "thủ tục hành chính"

// EmbeddingLoader implements ai.ModelLoader for the public multilingual
// model served over an OpenAI-compatible API.
type EmbeddingLoader struct {
	config *ai.Config
	build  func(*ai.Config) (*Embedder, error)
	logger *slog.Logger
}

// NewEmbeddingLoader creates a loader for config.EmbeddingModel.
// The config is validated and normalized before use.
//
// Returns ai.ModelLoader interface to enforce abstraction.
func NewEmbeddingLoader(config *ai.Config) (ai.ModelLoader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &EmbeddingLoader{
		config: config,
		build:  newEmbedder,
		logger: slog.Default().With("component", "openai-loader"),
	}, nil
}

// ModelID returns the model identifier prefixed with the transport.
func (l *EmbeddingLoader) ModelID() string {
	return "openai:" + l.config.EmbeddingModel
}

// Load builds the client and embeds a probe text. A service that is down or
// does not serve the model fails here rather than on the first query.
func (l *EmbeddingLoader) Load(ctx context.Context) (ai.Embedder, error) {
	l.logger.Info("loading fallback embedding model", "model", l.config.EmbeddingModel, "host", l.config.EmbeddingHost)

	embedder, err := l.build(l.config)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrModelLoad, l.config.EmbeddingModel, err)
	}

	vector, err := embedder.EmbedText(ctx, probeText)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: probe failed: %w", core.ErrModelLoad, l.config.EmbeddingModel, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: %s: probe returned an empty vector", core.ErrModelLoad, l.config.EmbeddingModel)
	}

	l.logger.Debug("fallback embedding model ready", "dimensions", len(vector))
	return embedder, nil
}
