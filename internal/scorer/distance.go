package scorer

import (
	"github.com/tidwall/geodesic"

	"github.com/sells-group/store-recommender/internal/catalog"
)

// DistanceKM returns the geodesic distance between a and b on the WGS84
// ellipsoid, in kilometers. Identical points are exactly 0.
func DistanceKM(a, b catalog.Coordinate) float64 {
	if a == b {
		return 0
	}
	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &meters, nil, nil)
	return meters / 1000
}
