// Package geocode resolves free-text place searches to coordinates.
package geocode

import (
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/platform/httpx"
	"bikeroute-service/internal/platform/obs"
	"bikeroute-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// ErrNoResults is returned when the search matched nothing.
var ErrNoResults = errors.New("no geocode results")

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSGeocoder implements ports.Geocoder using OpenRouteService (/geocode/search).
// Results are cached by normalized query text when a cache is configured.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	policy  httpx.Policy
	cache   ports.GeocodeCache
}

func NewORSGeocoder(apiKey string, cache ports.GeocodeCache) (*ORSGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		policy:  httpx.DefaultPolicy,
		cache:   cache,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace and case.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Geocode returns the best match for text.
func (o *ORSGeocoder) Geocode(ctx context.Context, text string) (_ ports.Place, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(text)
	if norm == "" {
		return ports.Place{}, errors.New("geocode: query must be non-empty")
	}

	if o.cache != nil {
		hit, ok, err := o.cache.Get(ctx, norm)
		if err != nil {
			log.Printf("geocode cache read failed: %v", err)
		} else if ok {
			return hit, nil
		}
	}

	place, err := o.search(ctx, norm)
	if err != nil {
		return ports.Place{}, fmt.Errorf("geocode %q: %w", text, err)
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, norm, place); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return place, nil
}

func (o *ORSGeocoder) search(ctx context.Context, norm string) (ports.Place, error) {
	endpoint := o.baseURL + "/geocode/search"

	resp, err := httpx.DoWithRetry(ctx, o.session, o.policy, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", o.apiKey)
		req.Header.Set("Accept", "application/json")

		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.Place{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.Place{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return ports.Place{}, ErrNoResults
	}

	f := decoded.Features[0]
	coords := f.Geometry.Coordinates
	if len(coords) != 2 {
		return ports.Place{}, fmt.Errorf("invalid coordinate format: %v", coords)
	}

	label := f.Properties.Label
	if label == "" {
		label = norm
	}

	// GeoJSON order is [lon, lat].
	return ports.Place{
		Label:       label,
		Coordinates: domain.Coordinates{Lon: coords[0], Lat: coords[1]},
	}, nil
}
