package ports

import (
	"bikeroute-service/internal/domain"
	"context"
	"errors"
)

var ErrRouteNotFound = errors.New("route not found")

// Port: a boundary for persisting named routes.
// Repositories store waypoints and aggregate metrics only, never geometry.
type RouteRepository interface {
	// Persist a new route and return its assigned id.
	SaveRoute(ctx context.Context, route domain.SavedRoute) (int64, error)
	// Return the route with its points ordered by sequence, or ErrRouteNotFound.
	GetRoute(ctx context.Context, id int64) (*domain.SavedRoute, error)
	// Return summaries of all routes, newest first.
	ListRoutes(ctx context.Context) ([]domain.SavedRouteSummary, error)
	// Remove a route and its points, or return ErrRouteNotFound.
	DeleteRoute(ctx context.Context, id int64) error
}
