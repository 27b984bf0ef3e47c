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

// ErrConfigRequired is returned by constructors given a nil *Config.
var ErrConfigRequired = errors.New("ai config is required")

// Config holds configuration for the embedding models and the link generator.
type Config struct {
	// PrimaryModelDir is the directory of the fine-tuned domain model exported
	// to ONNX. Empty disables the primary model.
	PrimaryModelDir string

	// RuntimeLibrary is the path to the onnxruntime shared library used by
	// the primary model. Empty uses the platform default search path.
	RuntimeLibrary string

	// MaxSequenceLength caps the token count per text for the primary model.
	// Default: 256
	MaxSequenceLength int

	// EmbeddingHost is the base URL of the OpenAI-compatible service serving
	// the fallback model.
	// Example: "http://localhost:8080/v1"
	EmbeddingHost string

	// EmbeddingModel is the public multilingual model used as fallback.
	// Example: "sentence-transformers/paraphrase-multilingual-MiniLM-L12-v2"
	EmbeddingModel string

	// GeneratorHost is the base URL of the chat service used for link enrichment.
	// Example: "http://localhost:11434/v1"
	GeneratorHost string

	// GeneratorModel is the chat model used for link enrichment.
	// Example: "qwen2.5:3b"
	GeneratorModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithPrimaryModelDir sets the fine-tuned model directory.
func WithPrimaryModelDir(dir string) ConfigOption {
	return func(c *Config) {
		c.PrimaryModelDir = dir
	}
}

// WithRuntimeLibrary sets the onnxruntime shared library path.
func WithRuntimeLibrary(path string) ConfigOption {
	return func(c *Config) {
		c.RuntimeLibrary = path
	}
}

// WithMaxSequenceLength sets the per-text token cap for the primary model.
func WithMaxSequenceLength(n int) ConfigOption {
	return func(c *Config) {
		c.MaxSequenceLength = n
	}
}

// WithEmbeddingHost sets the fallback embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithGeneratorHost sets the link generator service host URL.
func WithGeneratorHost(host string) ConfigOption {
	return func(c *Config) {
		c.GeneratorHost = host
	}
}

// WithHost sets both embedding and generator hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.GeneratorHost = host
	}
}

// WithEmbeddingModel sets the fallback embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGeneratorModel sets the link generator model identifier.
func WithGeneratorModel(model string) ConfigOption {
	return func(c *Config) {
		c.GeneratorModel = model
	}
}

// DefaultConfig returns a Config with defaults for locally hosted services.
// No primary model directory is set by default.
func DefaultConfig() *Config {
	return &Config{
		MaxSequenceLength: 256,
		EmbeddingHost:     "http://localhost:8080/v1",
		EmbeddingModel:    "sentence-transformers/paraphrase-multilingual-MiniLM-L12-v2",
		GeneratorHost:     "http://localhost:11434/v1",
		GeneratorModel:    "qwen2.5:3b",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithPrimaryModelDir("/models/procedures-v2"),
//	    WithEmbeddingHost("http://embeddings:8080"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix that OpenAI-compatible APIs expect to both hosts.
func (c *Config) Normalize() {
	c.EmbeddingHost = withVersionSuffix(c.EmbeddingHost)
	c.GeneratorHost = withVersionSuffix(c.GeneratorHost)
}

func withVersionSuffix(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.GeneratorHost == "" {
		return errors.New("ai config: GeneratorHost is required")
	}
	if c.GeneratorModel == "" {
		return errors.New("ai config: GeneratorModel is required")
	}
	if c.MaxSequenceLength < 8 || c.MaxSequenceLength > 8192 {
		return errors.New("ai config: MaxSequenceLength must be between 8 and 8192")
	}
	return nil
}
