// Package tabular reads the delimited files that feed the catalog and the
// ranking label store.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyFile is returned when a file has no header row.
var ErrEmptyFile = errors.New("file has no header row")

// Table is a parsed delimited file.
// Header cells are cleaned; data cells are cleaned on access.
type Table struct {
	Header []string
	Rows   [][]string
}

// Read parses a CSV or TSV file. The delimiter is chosen from the extension:
// ".tsv" uses tabs, everything else uses commas.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyFile)
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = CleanCell(cell)
	}
	return &Table{Header: header, Rows: rows[1:]}, nil
}

// Column returns the index of the header cell that exactly matches name,
// or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ColumnFold is Column with case-insensitive matching.
func (t *Table) ColumnFold(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// Cell returns the cleaned value at row, col. Missing cells and col < 0
// yield "".
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return CleanCell(row[col])
}

// CleanCell strips a UTF-8 byte order mark and surrounding whitespace.
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(s)
}
