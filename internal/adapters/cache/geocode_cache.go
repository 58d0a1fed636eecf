package cache

import (
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/platform/db"
	"bikeroute-service/internal/platform/obs"
	"bikeroute-service/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLGeocodeCache is a SQL-backed cache mapping query text to places.
// Query keys are expected to be normalized by the caller.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLGeocodeCache(conn *sql.DB, dialect db.Dialect) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: conn, Dialect: dialect}
}

// Fetch the cached place for query.
func (s *SQLGeocodeCache) Get(ctx context.Context, query string) (_ ports.Place, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return ports.Place{}, false, errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return ports.Place{}, false, nil
	}

	q := s.Dialect.Rebind(`
	SELECT label, lon, lat
	FROM geocode_cache
	WHERE query = ?;
	`)

	var label string
	var lon, lat float64
	err = s.DB.QueryRowContext(ctx, q, query).Scan(&label, &lon, &lat)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Place{}, false, nil
	}
	if err != nil {
		return ports.Place{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return ports.Place{
		Label:       label,
		Coordinates: domain.Coordinates{Lat: lat, Lon: lon},
	}, true, nil
}

// Store a query -> place mapping in the cache.
func (s *SQLGeocodeCache) Put(ctx context.Context, query string, place ports.Place) (err error) {
	defer obs.Time(ctx, "geocode.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("insert geocode cache: empty query key")
	}

	q := s.Dialect.Rebind(`
	INSERT INTO geocode_cache (query, label, lon, lat)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (query) DO UPDATE
	SET label = excluded.label,
		lon = excluded.lon,
		lat = excluded.lat;
	`)

	c := place.Coordinates
	if _, err := s.DB.ExecContext(ctx, q, query, place.Label, c.Lon, c.Lat); err != nil {
		return fmt.Errorf("insert geocode cache query=%q: %w", query, err)
	}

	return nil
}
