package geocode

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Resolve geocodes address as typed and, only if that finds nothing, once more
// in its normalized form. A Result with Matched=false means the location is
// unknown; errors are provider failures.
func Resolve(ctx context.Context, c Client, address string) (*Result, error) {
	address = strings.TrimSpace(address)

	res, err := c.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if res.Matched {
		res.Query = address
		return res, nil
	}

	fallback := NormalizeAddress(address)
	if fallback == "" || fallback == address {
		return &Result{Matched: false, Query: address}, nil
	}

	zap.L().Info("geocode: retrying with normalized address",
		zap.String("address", address),
		zap.String("normalized", fallback),
	)
	res, err = c.Geocode(ctx, fallback)
	if err != nil {
		return nil, err
	}
	res.Query = fallback
	res.Fallback = res.Matched
	return res, nil
}
