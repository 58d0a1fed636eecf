package domain

import (
	"sort"
	"time"
)

// PointType is the persisted encoding of a Role.
type PointType string

const (
	PointTypeStart    PointType = "START_POINT"
	PointTypeWaypoint PointType = "WAYPOINT"
	PointTypeEnd      PointType = "END_POINT"
)

// Represents one persisted route point. Sequence is the zero-based order.
type SavedPoint struct {
	Latitude  float64
	Longitude float64
	PointType PointType
	Name      string
	Sequence  int
}

// Represents a named route as stored by the backend.
// A SavedRoute never carries engine geometry; it is recomputed on load.
type SavedRoute struct {
	ID                int64
	Name              string
	Costing           Costing
	BicycleType       BicycleType
	Points            []SavedPoint
	TotalDistance     float64
	EstimatedDuration float64
	CreatedAt         time.Time
}

// Summary view of a SavedRoute used for listings.
type SavedRouteSummary struct {
	ID                int64
	Name              string
	PointCount        int
	TotalDistance     float64
	EstimatedDuration float64
	CreatedAt         time.Time
}

func PointTypeFromRole(r Role) PointType {
	switch r {
	case RoleStart:
		return PointTypeStart
	case RoleEnd:
		return PointTypeEnd
	default:
		return PointTypeWaypoint
	}
}

func RoleFromPointType(t PointType) Role {
	switch t {
	case PointTypeStart:
		return RoleStart
	case PointTypeEnd:
		return RoleEnd
	default:
		return RoleWaypoint
	}
}

// Represents the legacy start/end-only route shape.
type SimpleRoute struct {
	Start     Coordinates
	StartName string
	End       Coordinates
	EndName   string
}

// ToMulti upgrades a simple route to a two-point sequence. Later insertions
// go through AddPoint, which demotes the end to a waypoint.
func (s SimpleRoute) ToMulti() []RoutePoint {
	points := AddPoint(nil, s.Start, s.StartName)
	return AddPoint(points, s.End, s.EndName)
}

// NewSavedRoute builds the persisted form of a point sequence. Roles are
// re-established before encoding so the stored types always match order.
func NewSavedRoute(name string, points []RoutePoint, opts RouteOptions, totalDistance, estimatedDuration float64) SavedRoute {
	ordered := ReassignRoles(points)

	saved := SavedRoute{
		Name:              name,
		Costing:           opts.Costing,
		BicycleType:       opts.BicycleType,
		Points:            make([]SavedPoint, 0, len(ordered)),
		TotalDistance:     totalDistance,
		EstimatedDuration: estimatedDuration,
	}
	for _, p := range ordered {
		saved.Points = append(saved.Points, SavedPoint{
			Latitude:  p.Coordinates.Lat,
			Longitude: p.Coordinates.Lon,
			PointType: PointTypeFromRole(p.Role),
			Name:      p.Name,
			Sequence:  p.Order,
		})
	}

	return saved
}

// ToSaved strips geometry and legs, keeping waypoints and aggregate metrics.
func (r *MultiWaypointRoute) ToSaved(name string) SavedRoute {
	return NewSavedRoute(name, r.Waypoints, r.Options, r.TotalDistance, r.TotalDuration)
}

// PointsFromSaved rebuilds a display-only point sequence from a stored route.
// The result has no geometry and needs a fresh route computation to render.
func PointsFromSaved(saved SavedRoute) []RoutePoint {
	stored := make([]SavedPoint, len(saved.Points))
	copy(stored, saved.Points)
	sort.SliceStable(stored, func(i, j int) bool { return stored[i].Sequence < stored[j].Sequence })

	points := make([]RoutePoint, 0, len(stored))
	for _, sp := range stored {
		points = append(points, RoutePoint{
			ID:          newPointID(),
			Coordinates: Coordinates{Lat: sp.Latitude, Lon: sp.Longitude},
			Role:        RoleFromPointType(sp.PointType),
			Name:        sp.Name,
		})
	}

	return ReassignRoles(points)
}

// Options returns the routing profile the route was saved with.
func (s SavedRoute) Options() RouteOptions {
	return RouteOptions{Costing: s.Costing, BicycleType: s.BicycleType}
}

// Summary returns the listing view of the route.
func (s SavedRoute) Summary() SavedRouteSummary {
	return SavedRouteSummary{
		ID:                s.ID,
		Name:              s.Name,
		PointCount:        len(s.Points),
		TotalDistance:     s.TotalDistance,
		EstimatedDuration: s.EstimatedDuration,
		CreatedAt:         s.CreatedAt,
	}
}
