package geometry

import (
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/ports"
	"errors"
	"fmt"
)

// ErrInvalidRouteResponse is returned when the engine response has no legs,
// or a leg count that does not fit the waypoints.
var ErrInvalidRouteResponse = errors.New("invalid route response")

// ProcessRoute builds a MultiWaypointRoute from the waypoints that were
// submitted and the engine's response.
//
// Leg geometries are concatenated in order; every leg after the first drops
// its first coordinate, which repeats the previous leg's last one. Totals
// come from the engine's own summary when present and from the sum of legs
// otherwise. A two-point route is simply the one-leg case.
//
// Fails with ErrInvalidRouteResponse when resp is nil or has no legs, and
// also when the leg count is not len(waypoints)-1.
func ProcessRoute(
	waypoints []domain.RoutePoint,
	resp *ports.EngineResponse,
	opts domain.RouteOptions,
) (*domain.MultiWaypointRoute, error) {
	if resp == nil || len(resp.Legs) == 0 {
		return nil, ErrInvalidRouteResponse
	}
	if len(waypoints) != len(resp.Legs)+1 {
		return nil, fmt.Errorf("%w: %d legs for %d waypoints", ErrInvalidRouteResponse, len(resp.Legs), len(waypoints))
	}

	legs := make([]domain.RouteLeg, 0, len(resp.Legs))
	var geometry []domain.Coordinates
	var legDistance, legDuration float64

	for i, el := range resp.Legs {
		shape := DecodePolyline(el.Shape, EnginePrecision)

		if i == 0 {
			geometry = append(geometry, shape...)
		} else if len(shape) > 0 {
			geometry = append(geometry, shape[1:]...)
		}

		distance, duration := summaryValues(el.Summary)
		legDistance += distance
		legDuration += duration

		legs = append(legs, domain.RouteLeg{
			StartPoint: waypoints[i].Coordinates,
			EndPoint:   waypoints[i+1].Coordinates,
			Distance:   distance,
			Duration:   duration,
			Geometry:   shape,
		})
	}

	totalDistance, totalDuration := legDistance, legDuration
	if resp.Summary != nil {
		if resp.Summary.Length != nil {
			totalDistance = *resp.Summary.Length
		}
		if resp.Summary.Time != nil {
			totalDuration = *resp.Summary.Time
		}
	}

	style := domain.RenderStyle{LineColor: opts.LineColor, LineWidth: opts.LineWidth}
	if style.LineColor == "" {
		style.LineColor = domain.DefaultLineColor
	}
	if style.LineWidth <= 0 {
		style.LineWidth = domain.DefaultLineWidth
	}

	snapshot := make([]domain.RoutePoint, len(waypoints))
	copy(snapshot, waypoints)

	return &domain.MultiWaypointRoute{
		Waypoints:     snapshot,
		Legs:          legs,
		TotalDistance: totalDistance,
		TotalDuration: totalDuration,
		Geometry:      geometry,
		Options:       opts,
		Style:         style,
	}, nil
}

// summaryValues returns a leg's length and time, 0 for anything absent.
func summaryValues(s *ports.EngineSummary) (length, seconds float64) {
	if s == nil {
		return 0, 0
	}
	if s.Length != nil {
		length = *s.Length
	}
	if s.Time != nil {
		seconds = *s.Time
	}
	return length, seconds
}
