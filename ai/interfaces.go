package ai

import (
	"context"

	"github.com/poiesic/procsuggest/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ModelLoader produces a ready Embedder for one embedding model.
// Load may be expensive; callers load at most once per process.
type ModelLoader interface {
	// Load prepares the model and returns an Embedder backed by it.
	Load(ctx context.Context) (Embedder, error)

	// ModelID identifies the model. Cached vectors are keyed by it, so two
	// loaders that produce different vectors must return different IDs.
	ModelID() string
}

// ArtifactChecker is implemented by loaders that read model files from disk.
// CheckArtifacts reports core.ErrMissingArtifacts without loading anything.
type ArtifactChecker interface {
	CheckArtifacts() error
}

// LinkEnricher post-processes the generated reference link for a procedure.
// Implementations return the link to use; on error the caller keeps the
// generated link.
type LinkEnricher interface {
	EnrichLink(ctx context.Context, record core.ProcedureRecord, generated string) (string, error)
}
