package catalog

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/store-recommender/internal/config"
)

func writeWorkbook(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, v := range rowData {
				row.AddCell().SetString(v)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		source string
		want   any
	}{
		{config.SourceXLSX, &XLSXSource{}},
		{config.SourceCSV, &CSVSource{}},
		{config.SourceSQLite, &SQLiteSource{}},
		{config.SourcePostgres, &postgresURLSource{}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			src, err := NewSource(config.DataConfig{Source: tt.source})
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}

	_, err := NewSource(config.DataConfig{Source: "parquet"})
	assert.Error(t, err)
}

func TestXLSXSource_Load(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"SKU":      productRows(),
		"Cửa hàng": storeRows(),
	})

	src := &XLSXSource{Path: path, ProductsSheet: "SKU", StoresSheet: "Cửa hàng", Columns: testColumns()}
	c, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, c.NumProducts())
	assert.Equal(t, 2, c.NumStores())
}

func TestXLSXSource_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{"SKU": productRows()})

	src := &XLSXSource{Path: path, ProductsSheet: "SKU", StoresSheet: "Cửa hàng", Columns: testColumns()}
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestXLSXSource_MalformedCoordinateIsFatal(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"SKU":      productRows(),
		"Cửa hàng": {{"Cửa hàng", "Tọa độ"}, {"Store A", "unknown"}},
	})

	src := &XLSXSource{Path: path, ProductsSheet: "SKU", StoresSheet: "Cửa hàng", Columns: testColumns()}
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedCoordinate))
}

func TestCSVSource_Load(t *testing.T) {
	dir := t.TempDir()
	productsPath := filepath.Join(dir, "products.csv")
	storesPath := filepath.Join(dir, "stores.csv")
	require.NoError(t, os.WriteFile(productsPath, []byte(
		"SKU,Cửa hàng,Price,Color\nK-1,Store A,500000,black\nK-2,Store B,600000,red\n"), 0o644))
	require.NoError(t, os.WriteFile(storesPath, []byte(
		"Cửa hàng,Tọa độ\nStore A,\"10.7769, 106.7009\"\nStore B,\"10.7626, 106.6602\"\n"), 0o644))

	src := &CSVSource{ProductsPath: productsPath, StoresPath: storesPath, Columns: testColumns()}
	c, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, c.NumProducts())
	s := c.Stores()[1]
	assert.Equal(t, "Store B", s.Name)
	assert.InDelta(t, 106.6602, s.Location.Lon, 1e-9)
}

func TestNewSource_CSVDelimiter(t *testing.T) {
	dir := t.TempDir()
	productsPath := filepath.Join(dir, "products.csv")
	storesPath := filepath.Join(dir, "stores.csv")
	require.NoError(t, os.WriteFile(productsPath, []byte(
		"SKU;Cửa hàng;Price;Color\nK-1;Store A;500000;black\n"), 0o644))
	require.NoError(t, os.WriteFile(storesPath, []byte(
		"Cửa hàng;Tọa độ\nStore A;10.7769, 106.7009\n"), 0o644))

	src, err := NewSource(config.DataConfig{
		Source:       config.SourceCSV,
		ProductsPath: productsPath,
		StoresPath:   storesPath,
		CSVDelimiter: ";",
		Columns:      testColumns(),
	})
	require.NoError(t, err)

	c, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, c.NumProducts())
	assert.Equal(t, 1, c.NumStores())
	assert.InDelta(t, 10.7769, c.Stores()[0].Location.Lat, 1e-9)
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := &CSVSource{ProductsPath: "/nonexistent/products.csv", StoresPath: "/nonexistent/stores.csv", Columns: testColumns()}
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog: open")
}

func TestSQLiteSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE products ("SKU" TEXT, "Cửa hàng" TEXT, "Price" REAL, "Color" TEXT);
		INSERT INTO products VALUES ('K-1', 'Store A', 500000, 'black');
		INSERT INTO products VALUES ('K-2', 'Store A', 650000.5, NULL);
		CREATE TABLE stores ("Cửa hàng" TEXT, "Tọa độ" TEXT);
		INSERT INTO stores VALUES ('Store A', '10.7769, 106.7009');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	src := &SQLiteSource{Path: path, ProductsTable: "products", StoresTable: "stores", Columns: testColumns()}
	c, err := src.Load(context.Background())
	require.NoError(t, err)

	products := c.Products()
	require.Len(t, products, 2)
	assert.True(t, products[0].Price.Equal(price("500000")))
	assert.True(t, products[1].Price.Equal(price("650000.5")))
	assert.Equal(t, "", products[1].Color)
	assert.Equal(t, 1, c.NumStores())
}

func TestSQLiteSource_MissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	src := &SQLiteSource{Path: path, ProductsTable: "products", StoresTable: "stores", Columns: testColumns()}
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog: sqlite query")
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"products"`, quoteIdent("products"))
	assert.Equal(t, `"Cửa hàng"`, quoteIdent("Cửa hàng"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "x", cellString("x"))
	assert.Equal(t, "y", cellString([]byte("y")))
	assert.Equal(t, "42", cellString(int64(42)))
	assert.Equal(t, "1250000", cellString(float64(1250000)))
	assert.Equal(t, "0.5", cellString(0.5))
	assert.Equal(t, "true", cellString(true))
}
