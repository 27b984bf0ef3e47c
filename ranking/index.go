package ranking

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"strconv"

	"github.com/poiesic/procsuggest/core"
	"github.com/poiesic/procsuggest/tabular"
)

// Index maps normalized query text to the positively labeled procedures for
// it. Labels keep the order of their source rows. An Index is read-only
// after Build returns and safe for concurrent use.
type Index struct {
	entries map[string][]core.RankingLabel
	keys    []string
}

// Empty returns an index with no entries. Lookups always miss.
func Empty() *Index {
	return &Index{entries: map[string][]core.RankingLabel{}}
}

// Build loads the ranking file at path.
//
// A missing file is not an error: it yields an empty index. A file that
// lacks a required column fails with core.ErrRankingSchema. Rows whose label
// does not coerce to a positive number are dropped.
func Build(path string) (*Index, error) {
	logger := slog.Default().With("component", "ranking")

	table, err := tabular.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("ranking file not found, label lookups disabled", "path", path)
			return Empty(), nil
		}
		if errors.Is(err, tabular.ErrEmptyFile) {
			logger.Info("ranking file is empty, label lookups disabled", "path", path)
			return Empty(), nil
		}
		return nil, fmt.Errorf("%w: %w", core.ErrRankingSchema, err)
	}

	cols, err := resolveColumns(table)
	if err != nil {
		return nil, err
	}

	idx := Empty()
	dropped := 0
	for _, row := range table.Rows {
		queryText := tabular.Cell(row, cols[ColQueryText])
		label := core.RankingLabel{
			QueryText:     queryText,
			Key:           core.NormalizeQuery(queryText),
			ProcedureID:   core.ProcedureID(tabular.Cell(row, cols[ColProcedureID])),
			ProcedureCode: tabular.Cell(row, cols[ColProcedureCode]),
			ProcedureName: tabular.Cell(row, cols[ColProcedureName]),
			Label:         coerceLabel(tabular.Cell(row, cols[ColLabel])),
		}
		if err := core.ValidateLabel(&label); err != nil {
			dropped++
			continue
		}
		idx.add(label)
	}

	logger.Debug("ranking labels loaded",
		"path", path,
		"queries", idx.Len(),
		"labels", idx.Size(),
		"dropped", dropped)
	return idx, nil
}

func (i *Index) add(label core.RankingLabel) {
	if _, ok := i.entries[label.Key]; !ok {
		i.keys = append(i.keys, label.Key)
	}
	i.entries[label.Key] = append(i.entries[label.Key], label)
}

// Lookup normalizes query and returns its labels in source order.
// The returned slice must not be modified.
func (i *Index) Lookup(query string) []core.RankingLabel {
	return i.LookupKey(core.NormalizeQuery(query))
}

// LookupKey returns the labels stored under an already normalized key.
func (i *Index) LookupKey(key string) []core.RankingLabel {
	if i == nil {
		return nil
	}
	return i.entries[key]
}

// Len returns the number of distinct normalized queries.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.keys)
}

// Size returns the total number of labels.
func (i *Index) Size() int {
	if i == nil {
		return 0
	}
	n := 0
	for _, labels := range i.entries {
		n += len(labels)
	}
	return n
}

// Keys returns the normalized queries in first-seen order.
func (i *Index) Keys() []string {
	if i == nil {
		return nil
	}
	return append([]string(nil), i.keys...)
}

// coerceLabel turns a raw label cell into a relevance weight.
// Non-numeric values count as 0. Positive fractions round to at least 1.
func coerceLabel(raw string) int {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return max(1, int(math.Round(v)))
}
