package ranking

import (
	"fmt"
	"strings"

	"github.com/poiesic/procsuggest/core"
	"github.com/poiesic/procsuggest/tabular"
)

// Canonical column keys.
const (
	ColQueryText     = "query_text"
	ColProcedureID   = "procedure_id"
	ColProcedureName = "procedure_name"
	ColProcedureCode = "procedure_code"
	ColLabel         = "label"
)

// columnSynonyms lists, per canonical key, the header names accepted for it
// in priority order. Header matching is case-insensitive.
var columnSynonyms = []struct {
	canonical string
	accepted  []string
	required  bool
}{
	{canonical: ColQueryText, accepted: []string{"query_text"}, required: true},
	{canonical: ColProcedureID, accepted: []string{"procedure_id"}, required: true},
	{canonical: ColProcedureName, accepted: []string{"procedure_name"}, required: true},
	{canonical: ColProcedureCode, accepted: []string{"procedure_code"}},
	{canonical: ColLabel, accepted: []string{"label", "relevance"}, required: true},
}

// resolveColumns maps each canonical key to its column index in table.
// Optional columns that are absent map to -1.
func resolveColumns(table *tabular.Table) (map[string]int, error) {
	cols := make(map[string]int, len(columnSynonyms))
	var missing []string
	for _, syn := range columnSynonyms {
		idx := -1
		for _, name := range syn.accepted {
			if idx = table.ColumnFold(name); idx >= 0 {
				break
			}
		}
		if idx < 0 && syn.required {
			missing = append(missing, strings.Join(syn.accepted, "|"))
		}
		cols[syn.canonical] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", core.ErrRankingSchema, strings.Join(missing, ", "))
	}
	return cols, nil
}
