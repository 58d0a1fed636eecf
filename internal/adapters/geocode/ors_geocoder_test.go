package geocode

import (
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/platform/httpx"
	"bikeroute-service/internal/ports"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tiergarten = `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[13.3501,52.5145]},"properties":{"label":"Tiergarten, Berlin, Germany"}}]}`

type memCache struct {
	mu sync.Mutex
	m  map[string]ports.Place
}

func (c *memCache) Get(ctx context.Context, query string) (ports.Place, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.m[query]
	return p, ok, nil
}

func (c *memCache) Put(ctx context.Context, query string, place ports.Place) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[query] = place
	return nil
}

func newTestGeocoder(t *testing.T, srv *httptest.Server, cache ports.GeocodeCache) *ORSGeocoder {
	t.Helper()
	g, err := NewORSGeocoder("test-key", cache)
	require.NoError(t, err)
	g.baseURL = srv.URL
	g.session = srv.Client()
	g.policy = httpx.Policy{MaxAttempts: 2, Backoff: time.Millisecond}
	return g
}

func TestNewORSGeocoder_RequiresKey(t *testing.T) {
	_, err := NewORSGeocoder(" ", nil)
	assert.Error(t, err)
}

func TestGeocode_ParsesFirstFeature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "tiergarten berlin", r.URL.Query().Get("text"))
		assert.Equal(t, "1", r.URL.Query().Get("size"))
		w.Write([]byte(tiergarten))
	}))
	defer srv.Close()

	place, err := newTestGeocoder(t, srv, nil).Geocode(context.Background(), "  Tiergarten   Berlin ")
	require.NoError(t, err)

	assert.Equal(t, "Tiergarten, Berlin, Germany", place.Label)
	assert.Equal(t, domain.Coordinates{Lat: 52.5145, Lon: 13.3501}, place.Coordinates)
}

func TestGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	_, err := newTestGeocoder(t, srv, nil).Geocode(context.Background(), "atlantis")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGeocode_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[{"geometry":{"coordinates":[13.35]}}]}`))
	}))
	defer srv.Close()

	_, err := newTestGeocoder(t, srv, nil).Geocode(context.Background(), "somewhere")
	assert.Error(t, err)
}

func TestGeocode_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestGeocoder(t, srv, nil).Geocode(context.Background(), "somewhere")

	var se *httpx.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Code)
}

func TestGeocode_BlankQuery(t *testing.T) {
	g, err := NewORSGeocoder("k", nil)
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), " \t ")
	assert.Error(t, err)
}

func TestGeocode_UsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(tiergarten))
	}))
	defer srv.Close()

	cache := &memCache{m: map[string]ports.Place{}}
	g := newTestGeocoder(t, srv, cache)

	first, err := g.Geocode(context.Background(), "Tiergarten")
	require.NoError(t, err)
	second, err := g.Geocode(context.Background(), "tiergarten ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, cache.m, "tiergarten")
}
