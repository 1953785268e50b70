package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/store-recommender/internal/resilience"
)

// NominatimProvider geocodes via the OpenStreetMap Nominatim search API.
type NominatimProvider struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	AddressType string `json:"addresstype"`
}

// Name implements Provider.
func (p *NominatimProvider) Name() string { return "nominatim" }

// Geocode implements Provider.
func (p *NominatimProvider) Geocode(ctx context.Context, address string) (*Result, error) {
	if err := waitLimiter(ctx, p.Limiter); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim rate limit")
	}

	params := url.Values{
		"q":      {address},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}
	reqURL := strings.TrimRight(p.BaseURL, "/") + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim build request")
	}
	req.Header.Set("User-Agent", p.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("geocode: nominatim returned status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse response")
	}
	if len(places) == 0 {
		return &Result{Matched: false, Source: "nominatim"}, nil
	}

	place := places[0]
	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: nominatim latitude %q", place.Lat)
	}
	lon, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: nominatim longitude %q", place.Lon)
	}

	return &Result{
		Latitude:    lat,
		Longitude:   lon,
		Source:      "nominatim",
		DisplayName: place.DisplayName,
		Quality:     nominatimQuality(place),
		Matched:     true,
	}, nil
}

// nominatimQuality maps the OSM feature kind onto the same quality scale the
// Google provider reports.
func nominatimQuality(p nominatimPlace) string {
	kind := p.AddressType
	if kind == "" {
		kind = p.Type
	}
	switch kind {
	case "house", "building", "shop", "amenity":
		return "rooftop"
	case "road", "street":
		return "range"
	case "suburb", "quarter", "neighbourhood", "city_district", "district":
		return "centroid"
	default:
		return "approximate"
	}
}
