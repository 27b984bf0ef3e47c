package badger

import (
	"github.com/poiesic/procsuggest/core"
)

// Key prefixes for different data types
const (
	vectorPrefix = "vec"
)

// makeVectorModelPrefix returns the prefix shared by all vectors of a model.
// Model IDs are hashed so IDs containing the separator cannot overlap.
// Format: prefix:modelHash:
func makeVectorModelPrefix(modelID string) []byte {
	return []byte(vectorPrefix + ":" + core.ContentHash(modelID) + ":")
}

// makeVectorKey generates a key for one cached vector.
// Format: prefix:modelHash:contentHash
func makeVectorKey(modelID, hash string) []byte {
	return append(makeVectorModelPrefix(modelID), hash...)
}
