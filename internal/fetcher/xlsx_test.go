package fetcher

import (
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

func TestReadXLSXTable_Basic(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Name", "Price"},
			{"Aviator", "750000"},
		},
	})

	tables, err := ReadXLSXTable(path, "Sheet1")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Name", "Price"}, tables[0].Header)
	assert.Equal(t, [][]string{{"Aviator", "750000"}}, tables[0].Rows)
}

func TestReadXLSXTable_SheetNotFound(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {{"a"}},
	})

	_, err := ReadXLSXTable(path, "Sheet1", "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Missing" not found`)
}

func TestReadXLSXTable_MissingFile(t *testing.T) {
	_, err := ReadXLSXTable(filepath.Join(t.TempDir(), "nope.xlsx"), "SKU")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx: open file")
}

func TestReadXLSXTable_MultipleSheets(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"SKU": {
			{" SKU ", "Cửa hàng", "Price "},
			{"K-1", "Store A", "500000"},
			{"", "", ""},
			{"K-2", "Store B", "900000"},
		},
		"Cửa hàng": {
			{"Cửa hàng", "Tọa độ"},
			{"Store A", "10.7769, 106.7009"},
		},
	})

	tables, err := ReadXLSXTable(path, "SKU", "Cửa hàng")
	require.NoError(t, err)
	require.Len(t, tables, 2)

	products := tables[0]
	assert.Equal(t, []string{"SKU", "Cửa hàng", "Price"}, products.Header)
	require.Len(t, products.Rows, 2, "blank rows are dropped")
	assert.Equal(t, "Store B", products.Value(products.Rows[1], products.Index("cửa hàng")))

	stores := tables[1]
	assert.Equal(t, "10.7769, 106.7009", stores.Value(stores.Rows[0], stores.Index("Tọa độ")))
}

func TestReadXLSXTable_NumericCellsUnformatted(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("SKU")
	require.NoError(t, err)
	header := sheet.AddRow()
	header.AddCell().SetString("Price")
	row := sheet.AddRow()
	row.AddCell().SetFloatWithFormat(1250000, "#,##0")
	path := filepath.Join(t.TempDir(), "num.xlsx")
	require.NoError(t, f.Save(path))

	tables, err := ReadXLSXTable(path, "SKU")
	require.NoError(t, err)
	require.Len(t, tables[0].Rows, 1)
	assert.Equal(t, "1250000", tables[0].Rows[0][0])
}
