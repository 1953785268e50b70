package catalog

// StoreCount is a store joined with the number of matching products it carries.
type StoreCount struct {
	Store Store `json:"store" yaml:"store"`
	Count int   `json:"count" yaml:"count"`
}

// CountByStore groups products by their store reference.
func CountByStore(products []Product) map[string]int {
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Store]++
	}
	return counts
}

// Aggregate left-joins per-store match counts onto stores and keeps only the
// stores with at least one match, in store-table order. Products that refer to
// a store missing from the table drop out of the join.
func Aggregate(stores []Store, matched []Product) []StoreCount {
	counts := CountByStore(matched)

	out := make([]StoreCount, 0, len(counts))
	for _, s := range stores {
		n := counts[s.Name]
		if n == 0 {
			continue
		}
		out = append(out, StoreCount{Store: s, Count: n})
	}
	return out
}

// Inventory pairs every store with its total product count, zeros included,
// in store-table order.
func Inventory(stores []Store, products []Product) []StoreCount {
	counts := CountByStore(products)
	out := make([]StoreCount, len(stores))
	for i, s := range stores {
		out[i] = StoreCount{Store: s, Count: counts[s.Name]}
	}
	return out
}
