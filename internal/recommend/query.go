package recommend

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/store-recommender/internal/catalog"
	"github.com/sells-group/store-recommender/internal/scorer"
)

// Input validation errors. Callers reject these before calling Recommend.
var (
	ErrAddressTooShort = errors.New("address too short")
	ErrInvalidPriority = scorer.ErrInvalidPriority
)

// Query is one user request.
type Query struct {
	MinPrice decimal.Decimal `json:"min_price" yaml:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price" yaml:"max_price"`
	Address  string          `json:"address" yaml:"address"`
	Colors   []string        `json:"colors,omitempty" yaml:"colors,omitempty"`
	Types    []string        `json:"types,omitempty" yaml:"types,omitempty"`
	Brands   []string        `json:"brands,omitempty" yaml:"brands,omitempty"`
	Gender   string          `json:"gender,omitempty" yaml:"gender,omitempty"`
	Priority int             `json:"priority" yaml:"priority"`
}

// Default budget bounds, in VND.
var (
	DefaultMinPrice = decimal.NewFromInt(500_000)
	DefaultMaxPrice = decimal.NewFromInt(1_000_000)
)

// DefaultAddress is the example address offered to new users.
const DefaultAddress = "72 Lê Thánh Tôn, Quận 1, TP.HCM"

// NewQuery returns a Query with the default budget and priority.
func NewQuery(address string) Query {
	return Query{
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
		Address:  address,
		Priority: scorer.DefaultPriority,
	}
}

// Filter returns the catalog filter for the query's budget and attributes.
func (q Query) Filter() catalog.Filter {
	return catalog.Filter{
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Colors:   q.Colors,
		Types:    q.Types,
		Brands:   q.Brands,
		Gender:   q.Gender,
	}
}

// ValidateQuery checks the preconditions the presentation layer owns: an
// address of at least minAddressLen characters and a priority in [0, 100].
// An inverted price range is allowed; it simply matches nothing.
func ValidateQuery(q Query, minAddressLen int) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(q.Address)); n < minAddressLen {
		return eris.Wrapf(ErrAddressTooShort, "recommend: address has %d characters, need %d", n, minAddressLen)
	}
	if q.Priority < 0 || q.Priority > 100 {
		return eris.Wrapf(ErrInvalidPriority, "recommend: priority %d", q.Priority)
	}
	return nil
}
