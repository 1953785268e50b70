package catalog

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/store-recommender/internal/config"
	"github.com/sells-group/store-recommender/internal/fetcher"
)

// FromTables maps a product table and a store table onto a Catalog using the
// configured header names. Store and price columns are required in the
// product table; name and coordinate columns in the store table.
func FromTables(productTable, storeTable *fetcher.Table, cols config.ColumnsConfig) (*Catalog, error) {
	products, err := productsFromTable(productTable, cols)
	if err != nil {
		return nil, err
	}
	stores, err := storesFromTable(storeTable, cols)
	if err != nil {
		return nil, err
	}
	return New(products, stores)
}

func productsFromTable(t *fetcher.Table, cols config.ColumnsConfig) ([]Product, error) {
	storeIdx, err := requireColumn(t, "products", cols.Store)
	if err != nil {
		return nil, err
	}
	priceIdx, err := requireColumn(t, "products", cols.Price)
	if err != nil {
		return nil, err
	}
	skuIdx := t.Index(cols.SKU)
	colorIdx := t.Index(cols.Color)
	typeIdx := t.Index(cols.Type)
	brandIdx := t.Index(cols.Brand)
	genderIdx := t.Index(cols.Gender)

	products := make([]Product, 0, len(t.Rows))
	for i, row := range t.Rows {
		price, err := ParsePrice(t.Value(row, priceIdx))
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: products row %d", i+2)
		}
		sku := t.Value(row, skuIdx)
		if sku == "" {
			sku = fmt.Sprintf("row-%d", i+2)
		}
		products = append(products, Product{
			SKU:    sku,
			Store:  t.Value(row, storeIdx),
			Price:  price,
			Color:  t.Value(row, colorIdx),
			Type:   t.Value(row, typeIdx),
			Brand:  t.Value(row, brandIdx),
			Gender: t.Value(row, genderIdx),
		})
	}
	return products, nil
}

func storesFromTable(t *fetcher.Table, cols config.ColumnsConfig) ([]Store, error) {
	nameIdx, err := requireColumn(t, "stores", cols.Store)
	if err != nil {
		return nil, err
	}
	coordIdx, err := requireColumn(t, "stores", cols.Coordinate)
	if err != nil {
		return nil, err
	}
	addrIdx := t.Index(cols.Address)

	stores := make([]Store, 0, len(t.Rows))
	for i, row := range t.Rows {
		loc, err := ParseCoordinate(t.Value(row, coordIdx))
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: stores row %d", i+2)
		}
		stores = append(stores, Store{
			Name:     t.Value(row, nameIdx),
			Address:  t.Value(row, addrIdx),
			Location: loc,
		})
	}
	return stores, nil
}

func requireColumn(t *fetcher.Table, table, name string) (int, error) {
	idx := t.Index(name)
	if idx < 0 {
		return -1, eris.Wrapf(ErrMissingColumn, "catalog: %s table has no %q column", table, name)
	}
	return idx, nil
}

// ParsePrice parses a catalog price. Thousands separators (",", "_", spaces)
// are ignored.
func ParsePrice(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(",", "", "_", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, eris.Wrap(ErrMalformedPrice, "empty")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, eris.Wrapf(ErrMalformedPrice, "%q", s)
	}
	return d, nil
}
