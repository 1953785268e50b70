package recommend

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/store-recommender/internal/scorer"
)

// HeatPoint is one weighted point of the heat map. Intensity is the store's
// total score and needs no rescaling.
type HeatPoint struct {
	Lat       float64 `json:"lat" yaml:"lat"`
	Lon       float64 `json:"lon" yaml:"lon"`
	Intensity float64 `json:"intensity" yaml:"intensity"`
}

// HeatPoints converts a ranking into heat-map points in rank order.
func HeatPoints(ranked []scorer.ScoredStore) []HeatPoint {
	out := make([]HeatPoint, len(ranked))
	for i, s := range ranked {
		out[i] = HeatPoint{
			Lat:       s.Store.Location.Lat,
			Lon:       s.Store.Location.Lon,
			Intensity: s.TotalScore,
		}
	}
	return out
}

// FeatureCollection renders the outcome as GeoJSON: one point per ranked
// store carrying its intensity, plus the origin marker when known.
func (o *Outcome) FeatureCollection() *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(o.Ranked)+1)}

	if o.Origin != nil {
		props := map[string]any{
			"kind":    "origin",
			"address": o.Address,
		}
		if o.SnappedTo != "" {
			props["snapped_to"] = o.SnappedTo
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         "origin",
			Geometry:   o.Origin.Point(),
			Properties: props,
		})
	}

	for i, s := range o.Ranked {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       s.Store.Name,
			Geometry: s.Store.Location.Point(),
			Properties: map[string]any{
				"kind":        "store",
				"rank":        i + 1,
				"store":       s.Store.Name,
				"matches":     s.MatchCount,
				"distance_km": s.DistanceKM,
				"intensity":   s.TotalScore,
			},
		})
	}
	return fc
}

// GeoJSON marshals FeatureCollection.
func (o *Outcome) GeoJSON() ([]byte, error) {
	data, err := o.FeatureCollection().MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "recommend: marshal geojson")
	}
	return data, nil
}
