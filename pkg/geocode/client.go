// Package geocode turns free-text addresses into coordinates. Nominatim is the
// primary provider; Google is consulted when an API key is configured.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/store-recommender/internal/resilience"
)

// Defaults match the public Nominatim usage policy.
const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultUserAgent    = "matkinh_app"
	DefaultTimeout      = 10 * time.Second
)

// Client geocodes a single address.
type Client interface {
	// Geocode returns a Result with Matched=false when no provider knows the
	// address. An error means a provider failed for some other reason.
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result holds the geocoding output for an address. Source is "nominatim" or
// "google"; Quality is one of "rooftop", "range", "centroid", "approximate".
type Result struct {
	Latitude    float64 `json:"latitude" yaml:"latitude"`
	Longitude   float64 `json:"longitude" yaml:"longitude"`
	Source      string  `json:"source,omitempty" yaml:"source,omitempty"`
	DisplayName string  `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Quality     string  `json:"quality,omitempty" yaml:"quality,omitempty"`
	Matched     bool    `json:"matched" yaml:"matched"`

	// Query is the string that was sent to the provider; Fallback is set when
	// that string is the normalized form of the caller's address.
	Query    string `json:"query,omitempty" yaml:"query,omitempty"`
	Fallback bool   `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Option configures NewClient.
type Option func(*options)

type options struct {
	httpClient   *http.Client
	nominatimURL string
	userAgent    string
	googleKey    string
	rateLimit    float64
	timeout      time.Duration
	retry        resilience.Policy
}

// WithHTTPClient sets the HTTP client used by every provider.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithNominatimURL points the primary provider at another Nominatim instance.
func WithNominatimURL(u string) Option {
	return func(o *options) { o.nominatimURL = u }
}

// WithUserAgent sets the User-Agent Nominatim requires.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithGoogleAPIKey enables Google Geocoding as a second provider.
func WithGoogleAPIKey(key string) Option {
	return func(o *options) { o.googleKey = key }
}

// WithRateLimit sets requests per second per provider.
func WithRateLimit(rps float64) Option {
	return func(o *options) { o.rateLimit = rps }
}

// WithTimeout bounds each provider lookup, retries included. A lookup that
// runs out of time counts as no match.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetryPolicy controls retries of transient provider failures.
func WithRetryPolicy(p resilience.Policy) Option {
	return func(o *options) { o.retry = p }
}

// NewClient builds a cascade of Nominatim and, if a key is set, Google.
func NewClient(opts ...Option) Client {
	o := options{
		httpClient:   &http.Client{},
		nominatimURL: DefaultNominatimURL,
		userAgent:    DefaultUserAgent,
		rateLimit:    1,
		timeout:      DefaultTimeout,
		retry:        resilience.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	providers := []Provider{
		&NominatimProvider{
			BaseURL:    o.nominatimURL,
			UserAgent:  o.userAgent,
			HTTPClient: o.httpClient,
			Limiter:    newLimiter(o.rateLimit),
		},
	}
	if o.googleKey != "" {
		providers = append(providers, &GoogleProvider{
			APIKey:     o.googleKey,
			HTTPClient: o.httpClient,
			Limiter:    newLimiter(o.rateLimit),
		})
	}
	return NewCascadeClient(providers, o.timeout, o.retry)
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
}
