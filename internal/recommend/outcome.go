package recommend

import (
	"github.com/sells-group/store-recommender/internal/catalog"
	"github.com/sells-group/store-recommender/internal/scorer"
	"github.com/sells-group/store-recommender/pkg/geocode"
)

// Status tells the caller which of the three query results it got.
type Status string

// Query results.
const (
	StatusRanked           Status = "ranked"
	StatusNoMatchingStores Status = "no_matching_stores"
	StatusLocationNotFound Status = "location_not_found"
)

// Message is a short user-facing explanation of the status.
func (s Status) Message() string {
	switch s {
	case StatusRanked:
		return "recommended store found"
	case StatusNoMatchingStores:
		return "no matching stores for these criteria"
	case StatusLocationNotFound:
		return "location not found"
	default:
		return string(s)
	}
}

// Outcome is the result of one Recommend call. Origin, Ranked and Heat are
// only populated for the statuses that produce them.
type Outcome struct {
	ID       string              `json:"id" yaml:"id"`
	Status   Status              `json:"status" yaml:"status"`
	Message  string              `json:"message" yaml:"message"`
	Address  string              `json:"address" yaml:"address"`
	Geocoded *geocode.Result     `json:"geocoded,omitempty" yaml:"geocoded,omitempty"`
	Origin   *catalog.Coordinate `json:"origin,omitempty" yaml:"origin,omitempty"`
	// SnappedTo names the store whose location replaced the geocoded origin.
	SnappedTo       string               `json:"snapped_to,omitempty" yaml:"snapped_to,omitempty"`
	Weights         scorer.Weights       `json:"weights" yaml:"weights"`
	MatchedProducts int                  `json:"matched_products" yaml:"matched_products"`
	Ranked          []scorer.ScoredStore `json:"ranked,omitempty" yaml:"ranked,omitempty"`
	Heat            []HeatPoint          `json:"heat,omitempty" yaml:"heat,omitempty"`
}

// Top returns the recommended store.
func (o *Outcome) Top() (scorer.ScoredStore, bool) {
	return scorer.Top(o.Ranked)
}
