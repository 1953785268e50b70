// Package recommend answers store recommendation queries: it resolves the
// user's address, filters the catalog, and ranks the stores that carry
// matching products.
package recommend

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/store-recommender/internal/catalog"
	"github.com/sells-group/store-recommender/internal/config"
	"github.com/sells-group/store-recommender/internal/scorer"
	"github.com/sells-group/store-recommender/pkg/geocode"
)

// Service runs queries against a shared read-only catalog. It holds no
// per-query state and is safe for concurrent use.
type Service struct {
	catalog  *catalog.Catalog
	geocoder geocode.Client
	cfg      config.RecommendConfig
}

// NewService creates a Service.
func NewService(cat *catalog.Catalog, gc geocode.Client, cfg config.RecommendConfig) *Service {
	return &Service{catalog: cat, geocoder: gc, cfg: cfg}
}

// Catalog returns the reference data the service ranks against.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Validate applies ValidateQuery with the configured minimum address length.
func (s *Service) Validate(q Query) error {
	return ValidateQuery(q, s.cfg.MinAddressLength)
}

// Recommend resolves q.Address, snaps it to a known store when one is close
// enough, and ranks every store that has at least one product matching q.
// "Location not found" and "no matching stores" are reported through
// Outcome.Status; a returned error is a processing failure.
func (s *Service) Recommend(ctx context.Context, q Query) (*Outcome, error) {
	weights, err := scorer.WeightsFromPriority(q.Priority)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		ID:      uuid.NewString(),
		Address: q.Address,
		Weights: weights,
	}
	log := zap.L().With(zap.String("query_id", out.ID))

	geo, err := geocode.Resolve(ctx, s.geocoder, q.Address)
	if err != nil {
		log.Error("recommend: geocode failed", zap.String("address", q.Address), zap.Error(err))
		return nil, eris.Wrap(err, "recommend: geocode")
	}
	out.Geocoded = geo
	if !geo.Matched {
		log.Info("recommend: location not found", zap.String("address", q.Address))
		return out.finish(StatusLocationNotFound), nil
	}

	stores := s.catalog.Stores()
	origin, snapped := SnapToStore(catalog.Coordinate{Lat: geo.Latitude, Lon: geo.Longitude}, stores, s.cfg.SnapToleranceDeg)
	out.Origin = &origin
	if snapped != nil {
		out.SnappedTo = snapped.Name
		log.Debug("recommend: origin snapped to store", zap.String("store", snapped.Name))
	}

	matched := q.Filter().Apply(s.catalog.Products())
	out.MatchedProducts = len(matched)

	candidates := catalog.Aggregate(stores, matched)
	if len(candidates) == 0 {
		log.Info("recommend: no matching stores",
			zap.String("min_price", q.MinPrice.String()),
			zap.String("max_price", q.MaxPrice.String()),
		)
		return out.finish(StatusNoMatchingStores), nil
	}

	out.Ranked = scorer.Rank(scorer.Score(origin, candidates, weights))
	out.Heat = HeatPoints(out.Ranked)

	top, _ := out.Top()
	log.Info("recommend: ranked",
		zap.Int("candidates", len(out.Ranked)),
		zap.Int("matched_products", out.MatchedProducts),
		zap.String("top_store", top.Store.Name),
		zap.Float64("top_score", top.TotalScore),
	)
	return out.finish(StatusRanked), nil
}

func (o *Outcome) finish(s Status) *Outcome {
	o.Status = s
	o.Message = s.Message()
	return o
}
