package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/store-recommender/internal/catalog"
	"github.com/sells-group/store-recommender/internal/config"
	"github.com/sells-group/store-recommender/internal/recommend"
	"github.com/sells-group/store-recommender/internal/resilience"
	"github.com/sells-group/store-recommender/pkg/geocode"
)

// loadCatalog validates the data settings for mode and loads the reference tables.
func loadCatalog(ctx context.Context, c *config.Config, mode string) (*catalog.Catalog, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	src, err := catalog.NewSource(c.Data)
	if err != nil {
		return nil, err
	}
	cat, err := src.Load(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "load %s catalog", c.Data.Source)
	}
	return cat, nil
}

// newGeocoder builds the geocoding cascade from config.
func newGeocoder(c config.GeocodeConfig) geocode.Client {
	policy := resilience.DefaultPolicy()
	if c.MaxAttempts > 0 {
		policy.Attempts = c.MaxAttempts
	}

	return geocode.NewClient(
		geocode.WithNominatimURL(c.NominatimURL),
		geocode.WithUserAgent(c.UserAgent),
		geocode.WithGoogleAPIKey(c.GoogleAPIKey),
		geocode.WithRateLimit(c.RateLimit),
		geocode.WithTimeout(c.Timeout()),
		geocode.WithRetryPolicy(policy),
	)
}

// initService loads the catalog and wires the recommendation service.
func initService(ctx context.Context, c *config.Config, mode string) (*recommend.Service, error) {
	cat, err := loadCatalog(ctx, c, mode)
	if err != nil {
		return nil, err
	}

	zap.L().Info("catalog ready",
		zap.String("source", c.Data.Source),
		zap.Int("products", cat.NumProducts()),
		zap.Int("stores", cat.NumStores()),
		zap.Bool("google_fallback", c.Geocode.GoogleAPIKey != ""),
	)

	return recommend.NewService(cat, newGeocoder(c.Geocode), c.Recommend), nil
}
