package ports

import (
	"bikeroute-service/internal/domain"
	"context"
)

// A geocoded place.
type Place struct {
	Label       string
	Coordinates domain.Coordinates
}

// Contract for resolving free text to a location.
type Geocoder interface {
	// Return the best match for text.
	Geocode(ctx context.Context, text string) (Place, error)
}

// Storage for geocode results keyed by normalized query text.
type GeocodeCache interface {
	Get(ctx context.Context, query string) (place Place, found bool, err error)
	Put(ctx context.Context, query string, place Place) error
}
