package storage

import (
	"context"
)

// EmbeddingCache persists catalog embeddings between process runs.
// Vectors are keyed by the model that produced them and by the content hash
// of the embedded text, so a changed name or a different model never hits a
// stale vector. Implementations must be thread-safe.
type EmbeddingCache interface {
	// GetVectors returns the cached vectors for the given content hashes.
	// Hashes with no cached vector are absent from the result.
	GetVectors(ctx context.Context, modelID string, hashes []string) (map[string][]float32, error)

	// PutVectors stores vectors keyed by content hash, replacing existing ones.
	PutVectors(ctx context.Context, modelID string, vectors map[string][]float32) error

	// Purge removes every vector stored for modelID and returns how many
	// were removed.
	Purge(ctx context.Context, modelID string) (int, error)

	// Close closes the cache and releases resources.
	Close() error
}
