package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/store-recommender/internal/config"
	"github.com/sells-group/store-recommender/internal/fetcher"
)

func testColumns() config.ColumnsConfig {
	return config.ColumnsConfig{
		SKU:        "SKU",
		Store:      "Cửa hàng",
		Price:      "Price",
		Coordinate: "Tọa độ",
		Color:      "Color",
		Type:       "Type",
		Brand:      "Brand",
		Gender:     "Gender",
		Address:    "Địa chỉ",
	}
}

func productRows() [][]string {
	return [][]string{
		{"SKU", "Cửa hàng", "Price", "Color", "Brand"},
		{"K-1", "Store A", "500000", "black", "Rayban"},
		{"K-2", "Store B", "1,250,000", "red", "Oakley"},
		{"", "Store A", "750000.5", "", ""},
	}
}

func storeRows() [][]string {
	return [][]string{
		{"Cửa hàng", "Tọa độ", "Địa chỉ"},
		{"Store A", "10.7769, 106.7009", "72 Lê Thánh Tôn"},
		{"Store B", " 10.7626 , 106.6602 ", ""},
	}
}

func TestFromTables(t *testing.T) {
	c, err := FromTables(fetcher.NewTable(productRows()), fetcher.NewTable(storeRows()), testColumns())
	require.NoError(t, err)

	products := c.Products()
	require.Len(t, products, 3)
	assert.Equal(t, "K-1", products[0].SKU)
	assert.Equal(t, "Store A", products[0].Store)
	assert.True(t, products[0].Price.Equal(price("500000")))
	assert.Equal(t, "black", products[0].Color)
	assert.Equal(t, "Rayban", products[0].Brand)
	assert.Equal(t, "", products[0].Type, "optional column absent")
	assert.True(t, products[1].Price.Equal(price("1250000")))
	assert.Equal(t, "row-4", products[2].SKU, "missing SKU falls back to row number")

	stores := c.Stores()
	require.Len(t, stores, 2)
	assert.Equal(t, "72 Lê Thánh Tôn", stores[0].Address)
	assert.Equal(t, Coordinate{Lat: 10.7626, Lon: 106.6602}, stores[1].Location)
}

func TestFromTables_MissingPriceColumn(t *testing.T) {
	rows := [][]string{{"SKU", "Cửa hàng"}, {"K-1", "Store A"}}
	_, err := FromTables(fetcher.NewTable(rows), fetcher.NewTable(storeRows()), testColumns())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "Price")
}

func TestFromTables_MissingCoordinateColumn(t *testing.T) {
	rows := [][]string{{"Cửa hàng"}, {"Store A"}}
	_, err := FromTables(fetcher.NewTable(productRows()), fetcher.NewTable(rows), testColumns())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestFromTables_MalformedCoordinate(t *testing.T) {
	rows := [][]string{{"Cửa hàng", "Tọa độ"}, {"Store A", "10.7769 106.7009"}}
	_, err := FromTables(fetcher.NewTable(productRows()), fetcher.NewTable(rows), testColumns())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedCoordinate))
	assert.Contains(t, err.Error(), "stores row 2")
}

func TestFromTables_MalformedPrice(t *testing.T) {
	rows := [][]string{{"Cửa hàng", "Price"}, {"Store A", "cheap"}}
	_, err := FromTables(fetcher.NewTable(rows), fetcher.NewTable(storeRows()), testColumns())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedPrice))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"500000", "500000", false},
		{"1,000,000", "1000000", false},
		{" 750 000 ", "750000", false},
		{"1_000", "1000", false},
		{"99.5", "99.5", false},
		{"", "", true},
		{"free", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedPrice))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(price(tt.want)), "got %s", got)
		})
	}
}
