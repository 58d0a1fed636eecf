package services

import (
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/geometry"
	"bikeroute-service/internal/platform/obs"
	"bikeroute-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotEnoughPoints   = errors.New("at least two points are required to compute a route")
	ErrEmptyQuery        = errors.New("search query is empty")
	ErrEmptyRouteName    = errors.New("route name is empty")
	ErrGeocodingDisabled = errors.New("geocoding is not configured")
)

// Planner orchestrates route computation and persistence.
//
// It owns no route state of its own; the active route lives in a
// CurrentRoute supplied by the caller.
type Planner struct {
	engine   ports.RoutingEngine
	repo     ports.RouteRepository
	geocoder ports.Geocoder
	defaults domain.RouteOptions
}

// NewPlanner wires a planner. geocoder may be nil, which disables search
// insertion. defaults fill options a request leaves empty.
func NewPlanner(
	engine ports.RoutingEngine,
	repo ports.RouteRepository,
	geocoder ports.Geocoder,
	defaults domain.RouteOptions,
) *Planner {
	return &Planner{
		engine:   engine,
		repo:     repo,
		geocoder: geocoder,
		defaults: defaults,
	}
}

// options merges per-request options over the planner defaults.
func (p *Planner) options(opts domain.RouteOptions) (domain.RouteOptions, error) {
	if opts.Costing == "" {
		opts.Costing = p.defaults.Costing
	}
	// The default sub-profile belongs to the default costing only.
	if opts.BicycleType == "" && strings.EqualFold(string(opts.Costing), string(p.defaults.Costing)) {
		opts.BicycleType = p.defaults.BicycleType
	}
	if opts.LineColor == "" {
		opts.LineColor = p.defaults.LineColor
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = p.defaults.LineWidth
	}

	return opts.Normalize()
}

// Compute requests a route through points in order and assembles it.
func (p *Planner) Compute(
	ctx context.Context,
	points []domain.RoutePoint,
	opts domain.RouteOptions,
) (_ *domain.MultiWaypointRoute, err error) {
	defer obs.Time(ctx, "planner.Compute")(&err)

	if !domain.CanRoute(points) {
		return nil, ErrNotEnoughPoints
	}

	opts, err = p.options(opts)
	if err != nil {
		return nil, fmt.Errorf("compute route: %w", err)
	}

	points = domain.ReassignRoles(points)

	resp, err := p.engine.Route(ctx, ports.EngineRequest{
		Locations:   domain.CoordinatesOf(points),
		Costing:     opts.Costing,
		BicycleType: opts.BicycleType,
	})
	if err != nil {
		return nil, fmt.Errorf("compute route: %w", err)
	}

	route, err := geometry.ProcessRoute(points, resp, opts)
	if err != nil {
		return nil, fmt.Errorf("compute route: %w", err)
	}

	return route, nil
}

// ComputeCurrent computes a route and makes it the current one.
// Returns ErrStaleRoute when a newer computation overtook this one.
func (p *Planner) ComputeCurrent(
	ctx context.Context,
	current *CurrentRoute,
	points []domain.RoutePoint,
	opts domain.RouteOptions,
) (*domain.MultiWaypointRoute, error) {
	return current.Run(ctx, func(ctx context.Context) (*domain.MultiWaypointRoute, error) {
		return p.Compute(ctx, points, opts)
	})
}

// InsertAtCoordinates appends a point placed directly on the map.
func (p *Planner) InsertAtCoordinates(points []domain.RoutePoint, coords domain.Coordinates, name string) []domain.RoutePoint {
	return domain.AddPoint(points, coords, name)
}

// InsertBySearch geocodes query and appends the match, named by its label.
// On any failure the original sequence is returned unchanged with the error.
func (p *Planner) InsertBySearch(
	ctx context.Context,
	points []domain.RoutePoint,
	query string,
) ([]domain.RoutePoint, ports.Place, error) {
	place, err := p.Geocode(ctx, query)
	if err != nil {
		return points, ports.Place{}, err
	}

	return domain.AddPoint(points, place.Coordinates, place.Label), place, nil
}

// Geocode resolves query to a place.
func (p *Planner) Geocode(ctx context.Context, query string) (ports.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return ports.Place{}, ErrEmptyQuery
	}
	if p.geocoder == nil {
		return ports.Place{}, ErrGeocodingDisabled
	}

	place, err := p.geocoder.Geocode(ctx, query)
	if err != nil {
		return ports.Place{}, fmt.Errorf("search %q: %w", query, err)
	}

	return place, nil
}

// Save validates and persists a route. Stored point types are re-derived
// from sequence order.
func (p *Planner) Save(ctx context.Context, route domain.SavedRoute) (int64, error) {
	name := strings.TrimSpace(route.Name)
	if name == "" {
		return 0, ErrEmptyRouteName
	}
	if len(route.Points) < 2 {
		return 0, ErrNotEnoughPoints
	}

	opts, err := p.options(route.Options())
	if err != nil {
		return 0, fmt.Errorf("save route: %w", err)
	}

	normalized := domain.NewSavedRoute(name, domain.PointsFromSaved(route), opts, route.TotalDistance, route.EstimatedDuration)
	normalized.CreatedAt = route.CreatedAt

	id, err := p.repo.SaveRoute(ctx, normalized)
	if err != nil {
		return 0, fmt.Errorf("save route %q: %w", name, err)
	}

	return id, nil
}

// SaveComputed persists a computed route under name, without its geometry.
func (p *Planner) SaveComputed(ctx context.Context, name string, route *domain.MultiWaypointRoute) (int64, error) {
	if route == nil {
		return 0, errors.New("save route: route is nil")
	}
	return p.Save(ctx, route.ToSaved(name))
}

func (p *Planner) Load(ctx context.Context, id int64) (*domain.SavedRoute, error) {
	route, err := p.repo.GetRoute(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load route: %w", err)
	}
	return route, nil
}

func (p *Planner) List(ctx context.Context) ([]domain.SavedRouteSummary, error) {
	routes, err := p.repo.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

func (p *Planner) Delete(ctx context.Context, id int64) error {
	if err := p.repo.DeleteRoute(ctx, id); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	return nil
}

// ReloadGeometry recomputes the geometry of a saved route from its waypoints.
func (p *Planner) ReloadGeometry(ctx context.Context, id int64) (*domain.MultiWaypointRoute, *domain.SavedRoute, error) {
	saved, err := p.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	route, err := p.Compute(ctx, domain.PointsFromSaved(*saved), saved.Options())
	if err != nil {
		return nil, nil, fmt.Errorf("reload route id=%d: %w", id, err)
	}

	return route, saved, nil
}

// ExportGPX recomputes a saved route and renders it as GPX.
func (p *Planner) ExportGPX(ctx context.Context, id int64) ([]byte, *domain.SavedRoute, error) {
	route, saved, err := p.ReloadGeometry(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	b, err := geometry.ExportGPX(saved.Name, route)
	if err != nil {
		return nil, nil, fmt.Errorf("export route id=%d: %w", id, err)
	}

	return b, saved, nil
}
