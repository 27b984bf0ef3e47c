package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRead_CSV(t *testing.T) {
	path := writeFile(t, "catalog.csv", "\ufeffID, NAME \n1,Cấp giấy khai sinh\n2,\"Cấp căn cước, công dân\"\n")

	table, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "NAME"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Cấp căn cước, công dân", Cell(table.Rows[1], 1))
}

func TestRead_TSV(t *testing.T) {
	path := writeFile(t, "catalog.tsv", "ID\tNAME\n1\tCấp giấy khai sinh\n")

	table, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, 1, table.Column("NAME"))
	assert.Equal(t, "Cấp giấy khai sinh", Cell(table.Rows[0], 1))
}

func TestRead_RaggedRows(t *testing.T) {
	path := writeFile(t, "ragged.csv", "ID,NAME,CODE\n1,A\n2,B,X,extra\n")

	table, err := Read(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "", Cell(table.Rows[0], 2), "missing cell reads as empty")
	assert.Equal(t, "X", Cell(table.Rows[1], 2))
}

func TestRead_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Read(writeFile(t, "empty.csv", ""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
}

func TestTable_ColumnLookup(t *testing.T) {
	table := &Table{Header: []string{"query_text", "Relevance"}}

	assert.Equal(t, 0, table.Column("query_text"))
	assert.Equal(t, -1, table.Column("relevance"), "exact lookup is case-sensitive")
	assert.Equal(t, 1, table.ColumnFold("relevance"))
	assert.Equal(t, -1, table.ColumnFold("label"))
}

func TestCell_NegativeColumn(t *testing.T) {
	assert.Equal(t, "", Cell([]string{"a"}, -1))
}
