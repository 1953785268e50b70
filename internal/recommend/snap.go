package recommend

import "github.com/sells-group/store-recommender/internal/catalog"

// SnapToStore replaces origin with the location of the first store, in table
// order, that lies within tol degrees on both axes. The user standing at a
// known store then gets a distance of exactly zero to it.
func SnapToStore(origin catalog.Coordinate, stores []catalog.Store, tol float64) (catalog.Coordinate, *catalog.Store) {
	for i := range stores {
		if stores[i].Location.Near(origin, tol) {
			return stores[i].Location, &stores[i]
		}
	}
	return origin, nil
}
