// Package catalog holds the read-only product and store reference tables and
// the per-query filtering and per-store aggregation over them.
package catalog

import (
	"errors"
	"slices"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// Load-time errors. Any of these means the reference data cannot serve queries.
var (
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	ErrMalformedPrice      = errors.New("malformed price")
	ErrMissingColumn       = errors.New("missing required column")
	ErrDuplicateStore      = errors.New("duplicate store")
)

// Product is one SKU row. Store refers to Store.Name by value.
type Product struct {
	SKU    string          `json:"sku"`
	Store  string          `json:"store"`
	Price  decimal.Decimal `json:"price"`
	Color  string          `json:"color,omitempty"`
	Type   string          `json:"type,omitempty"`
	Brand  string          `json:"brand,omitempty"`
	Gender string          `json:"gender,omitempty"`
}

// Store is a physical shop with a required location.
type Store struct {
	Name     string     `json:"name" yaml:"name"`
	Address  string     `json:"address,omitempty" yaml:"address,omitempty"`
	Location Coordinate `json:"location" yaml:"location"`
}

// Catalog is the immutable pair of reference tables shared by every query.
// Accessors return copies so callers cannot mutate shared state.
type Catalog struct {
	products []Product
	stores   []Store
}

// New validates and wraps the two tables. Store names must be unique and
// non-empty, and every store location must be a valid coordinate.
func New(products []Product, stores []Store) (*Catalog, error) {
	seen := make(map[string]bool, len(stores))
	for i, s := range stores {
		if s.Name == "" {
			return nil, eris.Errorf("catalog: store at row %d has no name", i+1)
		}
		if seen[s.Name] {
			return nil, eris.Wrapf(ErrDuplicateStore, "catalog: store %q", s.Name)
		}
		if err := s.Location.Validate(); err != nil {
			return nil, eris.Wrapf(err, "catalog: store %q", s.Name)
		}
		seen[s.Name] = true
	}

	return &Catalog{
		products: slices.Clone(products),
		stores:   slices.Clone(stores),
	}, nil
}

// Products returns a copy of the product table.
func (c *Catalog) Products() []Product {
	return slices.Clone(c.products)
}

// Stores returns a copy of the store table in load order.
func (c *Catalog) Stores() []Store {
	return slices.Clone(c.stores)
}

// NumProducts returns the number of products.
func (c *Catalog) NumProducts() int { return len(c.products) }

// NumStores returns the number of stores.
func (c *Catalog) NumStores() int { return len(c.stores) }
