package loader

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	err := f.Save(path)
	require.NoError(t, err)
	return path
}

func TestReadXLSXRows_Basic(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"manufacturer", "name"},
			{"Dell", "Latitude 5420"},
			{"HP", "EliteBook 840"},
		},
	})

	header, row, extra, err := readXLSXRows(context.Background(), path, XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"manufacturer", "name"}, header)
	assert.Equal(t, []string{"Dell", "Latitude 5420"}, row)
	assert.Equal(t, 1, extra)
}

func TestReadXLSXRows_SkipsBlankRows(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"", ""},
			{"manufacturer", "name"},
			{"", ""},
			{"Dell", "Latitude 5420"},
		},
	})

	header, row, extra, err := readXLSXRows(context.Background(), path, XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"manufacturer", "name"}, header)
	assert.Equal(t, []string{"Dell", "Latitude 5420"}, row)
	assert.Zero(t, extra)
}

func TestReadXLSXRows_SheetName(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"First":  {{"a", "b"}},
		"Second": {{"manufacturer"}, {"Lenovo"}},
	})

	header, row, _, err := readXLSXRows(context.Background(), path, XLSXOptions{SheetName: "Second"})
	require.NoError(t, err)
	assert.Equal(t, []string{"manufacturer"}, header)
	assert.Equal(t, []string{"Lenovo"}, row)
}

func TestReadXLSXRows_SheetNameIgnoresCase(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Footprint": {{"manufacturer"}, {"Acer"}},
	})

	_, row, _, err := readXLSXRows(context.Background(), path, XLSXOptions{SheetName: "footprint"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acer"}, row)
}

func TestReadXLSXRows_DropsTrailingEmptyCells(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"manufacturer", "name", "", ""},
			{"Dell", "", "", ""},
		},
	})

	header, row, _, err := readXLSXRows(context.Background(), path, XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"manufacturer", "name"}, header)
	assert.Equal(t, []string{"Dell"}, row)
}

func TestReadXLSXRows_SheetNameNotFound(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {{"a"}},
	})

	_, _, _, err := readXLSXRows(context.Background(), path, XLSXOptions{SheetName: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadXLSXRows_SheetIndexOutOfRange(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {{"a"}},
	})

	_, _, _, err := readXLSXRows(context.Background(), path, XLSXOptions{SheetIndex: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestReadXLSXRows_MissingDataRow(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {{"manufacturer", "name"}},
	})

	_, _, _, err := readXLSXRows(context.Background(), path, XLSXOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing data row")
}

func TestReadXLSXRows_ContextCancelled(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {{"manufacturer"}, {"Dell"}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := readXLSXRows(ctx, path, XLSXOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}
