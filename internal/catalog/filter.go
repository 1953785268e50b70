package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Filter selects products for one query. Price bounds are inclusive. Each
// attribute set is an OR within the dimension; dimensions are ANDed together.
// An empty set (or empty Gender) places no restriction on that dimension.
type Filter struct {
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Colors   []string
	Types    []string
	Brands   []string
	Gender   string
}

// Match reports whether p satisfies every dimension of f. An inverted price
// range matches nothing.
func (f Filter) Match(p Product) bool {
	if p.Price.LessThan(f.MinPrice) || p.Price.GreaterThan(f.MaxPrice) {
		return false
	}
	if !memberOf(p.Color, f.Colors) {
		return false
	}
	if !memberOf(p.Type, f.Types) {
		return false
	}
	if !memberOf(p.Brand, f.Brands) {
		return false
	}
	if g := strings.TrimSpace(f.Gender); g != "" && !strings.EqualFold(strings.TrimSpace(p.Gender), g) {
		return false
	}
	return true
}

// Apply returns the products that match f, preserving input order.
func (f Filter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func memberOf(value string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	value = strings.TrimSpace(value)
	for _, s := range set {
		if strings.EqualFold(value, strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
