package core

import (
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// ProcedureID is a stable catalog identifier. Catalog sources carry either
// integer or string identifiers, so the raw text is kept as-is.
type ProcedureID string

// MarshalJSON emits integer identifiers as JSON numbers and everything else
// as strings.
func (id ProcedureID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ProcedureID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ProcedureID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = ProcedureID(s)
	return nil
}

// ContentHash returns a hex encoded BLAKE2b digest of text.
// Identical text always produces the identical hash.
func ContentHash(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Source identifies which ranking pass produced a suggestion.
type Source string

const (
	// SourceRankingLabel marks suggestions taken from curated relevance labels.
	SourceRankingLabel Source = "ranking_label"
	// SourceEmbedding marks suggestions found by embedding similarity.
	SourceEmbedding Source = "embedding"
)

// ProcedureRecord is one administrative procedure from the catalog.
// Records are immutable once loaded.
type ProcedureRecord struct {
	ID   ProcedureID
	Name string
	Code string // Optional secondary identifier

	// Placeholder is set on the stand-in row used when the catalog could
	// not be loaded. Placeholder rows are never suggested.
	Placeholder bool
}

// RankingLabel is one positively judged (query, procedure) pair.
type RankingLabel struct {
	QueryText     string      `json:"query_text"`
	Key           string      `json:"key"` // Normalized form of QueryText
	ProcedureID   ProcedureID `json:"procedure_id"`
	ProcedureCode string      `json:"procedure_code,omitempty"`
	ProcedureName string      `json:"procedure_name"`
	Label         int         `json:"label"` // Relevance weight, always > 0
}

// Suggestion is a single ranked procedure returned for a query.
type Suggestion struct {
	ProcedureInternalID ProcedureID `json:"procedure_internal_id"`
	ProcedureName       string      `json:"procedure_name"`
	ProcedureCode       *string     `json:"procedure_code"`
	Label               *int        `json:"label"`
	SimilarityScore     float64     `json:"similarity_score"`
	Source              Source      `json:"source"`
	Link                string      `json:"link"`
}

// SuggestionResult is the full response for one query.
// Error is empty unless the request failed.
type SuggestionResult struct {
	Suggestions     []Suggestion `json:"suggestions"`
	Explanation     string       `json:"explanation"`
	TotalCandidates int          `json:"total_candidates"`
	Error           string       `json:"error,omitempty"`
}
