package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/store-recommender/internal/resilience"
)

func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func fastRetry() resilience.Policy {
	return resilience.Policy{Attempts: 2, Backoff: time.Millisecond, MaxBackoff: time.Millisecond}
}

// newRewriteClient sends every request whose URL starts with targetPrefix to
// the test server instead.
func newRewriteClient(testServerURL, targetPrefix string) *http.Client {
	return &http.Client{Transport: &rewriteTransport{
		base:   http.DefaultTransport,
		server: testServerURL,
		prefix: targetPrefix,
	}}
}

type rewriteTransport struct {
	base   http.RoundTripper
	server string
	prefix string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	orig := req.URL.String()
	if !strings.HasPrefix(orig, t.prefix) {
		return t.base.RoundTrip(req)
	}
	parsed, err := req.URL.Parse(t.server + orig[len(t.prefix):])
	if err != nil {
		return nil, err
	}
	out := req.Clone(req.Context())
	out.URL = parsed
	out.Host = parsed.Host
	return t.base.RoundTrip(out)
}

// stubProvider returns canned answers keyed by address.
type stubProvider struct {
	name    string
	results map[string]*Result
	err     error
	delay   time.Duration
	calls   []string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Geocode(ctx context.Context, address string) (*Result, error) {
	s.calls = append(s.calls, address)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if r, ok := s.results[address]; ok {
		cp := *r
		return &cp, nil
	}
	return &Result{Matched: false, Source: s.name}, nil
}
