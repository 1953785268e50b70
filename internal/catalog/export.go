package catalog

import "github.com/sells-group/store-recommender/internal/config"

// ProductRecords lays the product table out under the configured header
// names. Every value is text, so FromTables reads the records back unchanged.
func (c *Catalog) ProductRecords(cols config.ColumnsConfig) ([]string, [][]any) {
	header := []string{cols.SKU, cols.Store, cols.Price, cols.Color, cols.Type, cols.Brand, cols.Gender}
	rows := make([][]any, len(c.products))
	for i, p := range c.products {
		rows[i] = []any{p.SKU, p.Store, p.Price.String(), p.Color, p.Type, p.Brand, p.Gender}
	}
	return header, rows
}

// StoreRecords is ProductRecords for the store table. Locations use the
// "lat, lon" form ParseCoordinate accepts.
func (c *Catalog) StoreRecords(cols config.ColumnsConfig) ([]string, [][]any) {
	header := []string{cols.Store, cols.Address, cols.Coordinate}
	rows := make([][]any, len(c.stores))
	for i, s := range c.stores {
		rows[i] = []any{s.Name, s.Address, s.Location.String()}
	}
	return header, rows
}
