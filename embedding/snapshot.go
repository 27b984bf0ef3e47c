package embedding

import (
	"context"
	"fmt"

	"github.com/poiesic/procsuggest/ai"
	"github.com/poiesic/procsuggest/core"
	"github.com/poiesic/procsuggest/ranking"
)

// Snapshot is the read-only state of a ready provider: the catalog, the
// label index, and one vector per catalog row. Row i of the matrix belongs
// to catalog row i.
type Snapshot struct {
	records  []core.ProcedureRecord
	labels   *ranking.Index
	matrix   [][]float32
	embedder ai.Embedder
	modelID  string
}

// NewSnapshot assembles a snapshot from already computed parts.
// matrix must have exactly one vector per record.
func NewSnapshot(records []core.ProcedureRecord, labels *ranking.Index, matrix [][]float32, embedder ai.Embedder, modelID string) (*Snapshot, error) {
	if len(matrix) != len(records) {
		return nil, fmt.Errorf("%w: %d vectors for %d rows", ErrMisaligned, len(matrix), len(records))
	}
	if labels == nil {
		labels = ranking.Empty()
	}
	return &Snapshot{
		records:  records,
		labels:   labels,
		matrix:   matrix,
		embedder: embedder,
		modelID:  modelID,
	}, nil
}

// Len returns the number of catalog rows.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// Record returns catalog row i.
func (s *Snapshot) Record(i int) core.ProcedureRecord {
	return s.records[i]
}

// Vector returns the embedding of catalog row i. Callers must not modify it.
func (s *Snapshot) Vector(i int) []float32 {
	return s.matrix[i]
}

// Labels returns the ranking label index.
func (s *Snapshot) Labels() *ranking.Index {
	return s.labels
}

// ModelID identifies the model that produced the vectors.
func (s *Snapshot) ModelID() string {
	return s.modelID
}

// Embed embeds texts with the active model.
func (s *Snapshot) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return s.embedder.EmbedTexts(ctx, texts)
}

// EmbedQuery embeds a single query with the active model.
func (s *Snapshot) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return s.embedder.EmbedText(ctx, text)
}
