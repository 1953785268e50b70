package geocode

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/store-recommender/internal/resilience"
)

// Provider is a single geocoding backend.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, address string) (*Result, error)
}

// CascadeClient tries providers in order until one matches.
type CascadeClient struct {
	providers []Provider
	timeout   time.Duration
	retry     resilience.Policy
}

// NewCascadeClient creates a CascadeClient. A zero timeout disables the
// per-provider deadline.
func NewCascadeClient(providers []Provider, timeout time.Duration, retry resilience.Policy) *CascadeClient {
	return &CascadeClient{providers: providers, timeout: timeout, retry: retry}
}

// Geocode implements Client. A provider that times out is treated as a miss
// and the next one is tried. Any other provider failure is returned only if
// no later provider matches.
func (c *CascadeClient) Geocode(ctx context.Context, address string) (*Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, eris.New("geocode: empty address")
	}

	var lastErr error
	for _, p := range c.providers {
		result, err := c.lookup(ctx, p, address)
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "geocode: cancelled")
		}
		if err != nil {
			if errors.Is(err, errTimedOut) {
				zap.L().Warn("geocode: provider timed out",
					zap.String("provider", p.Name()),
					zap.String("address", address),
					zap.Duration("timeout", c.timeout),
				)
				continue
			}
			zap.L().Warn("geocode: provider failed",
				zap.String("provider", p.Name()),
				zap.String("address", address),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		if result.Matched {
			zap.L().Debug("geocode: matched",
				zap.String("provider", p.Name()),
				zap.String("address", address),
				zap.Float64("lat", result.Latitude),
				zap.Float64("lon", result.Longitude),
			)
			return result, nil
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return &Result{Matched: false}, nil
}

var errTimedOut = errors.New("geocode: provider timed out")

// errRateWait reports a limiter wait that cannot finish before the deadline.
// rate.Limiter fails such waits up front, while the context is still live.
var errRateWait = errors.New("rate limit wait exceeds deadline")

func waitLimiter(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	if err := l.Wait(ctx); err != nil {
		if ctx.Err() == nil {
			return eris.Wrap(errRateWait, err.Error())
		}
		return err
	}
	return nil
}

// lookup runs one provider under the per-provider deadline with retries.
func (c *CascadeClient) lookup(ctx context.Context, p Provider, address string) (*Result, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	policy := c.retry
	policy.OnRetry = resilience.LogRetries(p.Name(), "geocode")
	policy.Retryable = func(err error) bool {
		return !errors.Is(err, errRateWait) && resilience.IsTransient(err)
	}

	result, err := resilience.Retry(callCtx, policy, func(ctx context.Context) (*Result, error) {
		return p.Geocode(ctx, address)
	})
	if err != nil {
		if ctx.Err() == nil && (errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, errRateWait)) {
			return nil, errTimedOut
		}
		return nil, err
	}
	return result, nil
}
