// Package scorer ranks candidate stores by a weighted blend of proximity and
// matching inventory.
package scorer

import (
	"errors"
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/store-recommender/internal/catalog"
)

// ErrInvalidPriority is returned for a priority outside [0, 100].
var ErrInvalidPriority = errors.New("priority must be between 0 and 100")

// DefaultPriority weights inventory at 60% and distance at 40%.
const DefaultPriority = 60

// Weights splits the total score between the distance and inventory signals.
// The two always sum to 1.
type Weights struct {
	Distance  float64 `json:"distance" yaml:"distance"`
	Inventory float64 `json:"inventory" yaml:"inventory"`
}

// WeightsFromPriority converts a 0-100 inventory priority into Weights.
func WeightsFromPriority(priority int) (Weights, error) {
	if priority < 0 || priority > 100 {
		return Weights{}, eris.Wrapf(ErrInvalidPriority, "scorer: priority %d", priority)
	}
	inv := float64(priority) / 100
	return Weights{Distance: 1 - inv, Inventory: inv}, nil
}

// ScoredStore is one ranked candidate.
type ScoredStore struct {
	Store          catalog.Store `json:"store" yaml:"store"`
	MatchCount     int           `json:"match_count" yaml:"match_count"`
	DistanceKM     float64       `json:"distance_km" yaml:"distance_km"`
	DistanceScore  float64       `json:"distance_score" yaml:"distance_score"`
	InventoryScore float64       `json:"inventory_score" yaml:"inventory_score"`
	TotalScore     float64       `json:"total_score" yaml:"total_score"`
}

// DistanceScore maps a distance onto (0, 1]. It is 1 at zero distance and does
// not depend on the other candidates.
func DistanceScore(km float64) float64 {
	return 1 / (1 + km)
}

// InventoryScore is count relative to the best-stocked candidate of the same
// query, so the leader always scores exactly 1.
func InventoryScore(count, maxCount int) float64 {
	if maxCount <= 0 {
		return 0
	}
	return float64(count) / float64(maxCount)
}

// Score computes distance, both normalized signals and the weighted total for
// every candidate. Candidates must all have Count >= 1; an empty input yields
// nil. Output order follows the input.
func Score(origin catalog.Coordinate, candidates []catalog.StoreCount, w Weights) []ScoredStore {
	if len(candidates) == 0 {
		return nil
	}

	maxCount := 0
	for _, c := range candidates {
		maxCount = max(maxCount, c.Count)
	}

	out := make([]ScoredStore, len(candidates))
	for i, c := range candidates {
		km := DistanceKM(origin, c.Store.Location)
		ds := DistanceScore(km)
		is := InventoryScore(c.Count, maxCount)
		out[i] = ScoredStore{
			Store:          c.Store,
			MatchCount:     c.Count,
			DistanceKM:     km,
			DistanceScore:  ds,
			InventoryScore: is,
			TotalScore:     round4(ds*w.Distance + is*w.Inventory),
		}
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
