package handlers

import (
	"bikeroute-service/internal/api/dto"
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/geometry"
)

// pointsFromInput builds a role-consistent sequence, keeping client ids.
func pointsFromInput(in []dto.WaypointInput) []domain.RoutePoint {
	points := make([]domain.RoutePoint, 0, len(in))
	for _, wp := range in {
		p := domain.CreatePoint(domain.Coordinates{Lat: wp.Latitude, Lon: wp.Longitude}, wp.Name, points)
		if wp.ID != "" {
			p.ID = wp.ID
		}
		points = append(points, p)
	}
	return domain.ReassignRoles(points)
}

func optionsFromRequest(o dto.OptionsRequest) domain.RouteOptions {
	return domain.RouteOptions{
		Costing:     domain.Costing(o.Costing),
		BicycleType: domain.BicycleType(o.BicycleType),
		LineColor:   o.LineColor,
		LineWidth:   o.LineWidth,
	}
}

func waypointResponses(points []domain.RoutePoint) []dto.WaypointResponse {
	out := make([]dto.WaypointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.WaypointResponse{
			ID:        p.ID,
			Latitude:  p.Coordinates.Lat,
			Longitude: p.Coordinates.Lon,
			Name:      p.Name,
			Role:      string(p.Role),
			Order:     p.Order,
			Label:     domain.DisplayName(p),
			IconClass: domain.IconClass(p.Role),
		})
	}
	return out
}

func routeResponse(route *domain.MultiWaypointRoute) dto.RouteResponse {
	legs := make([]dto.LegResponse, 0, len(route.Legs))
	for _, l := range route.Legs {
		legs = append(legs, dto.LegResponse{
			StartPoint: dto.CoordinatesResponse{Latitude: l.StartPoint.Lat, Longitude: l.StartPoint.Lon},
			EndPoint:   dto.CoordinatesResponse{Latitude: l.EndPoint.Lat, Longitude: l.EndPoint.Lon},
			Distance:   l.Distance,
			Duration:   l.Duration,
			PointCount: len(l.Geometry),
		})
	}

	return dto.RouteResponse{
		Waypoints:     waypointResponses(route.Waypoints),
		Legs:          legs,
		TotalDistance: route.TotalDistance,
		TotalDuration: route.TotalDuration,
		Costing:       string(route.Options.Costing),
		BicycleType:   string(route.Options.BicycleType),
		Geometry:      geometry.RenderGeometry(route),
		Style:         dto.StyleResponse{LineColor: route.Style.LineColor, LineWidth: route.Style.LineWidth},
		Markers:       geometry.RenderWaypoints(route.Waypoints),
	}
}

func savedFromRequest(req dto.SaveRouteRequest) domain.SavedRoute {
	saved := domain.SavedRoute{
		Name:              req.Name,
		Costing:           domain.Costing(req.Costing),
		BicycleType:       domain.BicycleType(req.BicycleType),
		TotalDistance:     req.TotalDistance,
		EstimatedDuration: req.EstimatedDuration,
		Points:            make([]domain.SavedPoint, 0, len(req.Points)),
	}
	for _, p := range req.Points {
		saved.Points = append(saved.Points, domain.SavedPoint{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			PointType: domain.PointType(p.PointType),
			Name:      p.Name,
			Sequence:  p.Sequence,
		})
	}
	return saved
}

func savedRouteResponse(saved *domain.SavedRoute) dto.SavedRouteResponse {
	points := make([]dto.SavedPointDTO, 0, len(saved.Points))
	for _, p := range saved.Points {
		points = append(points, dto.SavedPointDTO{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			PointType: string(p.PointType),
			Name:      p.Name,
			Sequence:  p.Sequence,
		})
	}

	return dto.SavedRouteResponse{
		ID:                saved.ID,
		Name:              saved.Name,
		Costing:           string(saved.Costing),
		BicycleType:       string(saved.BicycleType),
		Points:            points,
		TotalDistance:     saved.TotalDistance,
		EstimatedDuration: saved.EstimatedDuration,
		CreatedAt:         saved.CreatedAt,
	}
}
