package catalog

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/poiesic/procsuggest/core"
	"github.com/poiesic/procsuggest/tabular"
)

// Column names are fixed by the catalog data schema and matched exactly.
const (
	NameColumn = "NAME"
	IDColumn   = "ID"
	CodeColumn = "CODE"
)

// Load reads the procedure catalog at path.
//
// NAME is required. ID is optional; rows without one are identified by their
// zero-based position among the data rows. CODE is optional. Row order is preserved and no
// deduplication is done, so duplicate names stay distinct procedures.
// Rows with a blank name are skipped.
//
// Any failure is wrapped in core.ErrCatalogLoad.
func Load(path string) ([]core.ProcedureRecord, error) {
	logger := slog.Default().With("component", "catalog")

	table, err := tabular.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCatalogLoad, err)
	}

	nameCol := table.Column(NameColumn)
	if nameCol < 0 {
		return nil, fmt.Errorf("%w: column %q not found in %s", core.ErrCatalogLoad, NameColumn, path)
	}
	idCol := table.Column(IDColumn)
	codeCol := table.Column(CodeColumn)

	records := make([]core.ProcedureRecord, 0, len(table.Rows))
	skipped := 0
	for i, row := range table.Rows {
		record := core.ProcedureRecord{
			ID:   core.ProcedureID(tabular.Cell(row, idCol)),
			Name: tabular.Cell(row, nameCol),
			Code: tabular.Cell(row, codeCol),
		}
		if err := core.ValidateProcedure(&record); err != nil {
			skipped++
			continue
		}
		if record.ID == "" {
			record.ID = core.ProcedureID(strconv.Itoa(i))
		}
		records = append(records, record)
	}

	logger.Debug("catalog loaded", "path", path, "records", len(records), "skipped", skipped)
	return records, nil
}

// Placeholder returns the single stand-in row used when the catalog cannot
// be loaded, so the embedding index is never empty.
func Placeholder() []core.ProcedureRecord {
	return []core.ProcedureRecord{{
		ID:          "0",
		Name:        "Thủ tục hành chính",
		Placeholder: true,
	}}
}
