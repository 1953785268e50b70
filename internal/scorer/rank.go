package scorer

import (
	"cmp"
	"slices"
)

// Rank returns a copy of scored ordered by total score descending. Equal
// scores fall back to store name ascending, then distance ascending, so the
// order never depends on input order.
func Rank(scored []ScoredStore) []ScoredStore {
	ranked := slices.Clone(scored)
	slices.SortStableFunc(ranked, func(a, b ScoredStore) int {
		if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Store.Name, b.Store.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.DistanceKM, b.DistanceKM)
	})
	return ranked
}

// Top returns the recommended store, the head of a ranked list.
func Top(ranked []ScoredStore) (ScoredStore, bool) {
	if len(ranked) == 0 {
		return ScoredStore{}, false
	}
	return ranked[0], true
}
