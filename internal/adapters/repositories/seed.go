package repositories

import (
	"bikeroute-service/internal/domain"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

type PointSeed struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PointType string  `json:"pointType"`
	Name      string  `json:"name"`
	Sequence  int     `json:"sequence"`
}

type RouteSeed struct {
	Name              string      `json:"name"`
	Costing           string      `json:"costing"`
	BicycleType       string      `json:"bicycleType"`
	TotalDistance     float64     `json:"totalDistance"`
	EstimatedDuration float64     `json:"estimatedDuration"`
	Points            []PointSeed `json:"points"`
}

// Populate an empty routes table with saved routes from a JSON file.
// A table that already holds routes is left alone.
func SeedFromJSON(ctx context.Context, repo *SQLRouteRepository, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed routes: read %q: %w", jsonPath, err)
	}

	var data []RouteSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed routes: parse json: %w", err)
	}

	routes := make([]domain.SavedRoute, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return 0, fmt.Errorf("seed routes: item %d: name cannot be empty", i)
		}

		opts, err := domain.RouteOptions{
			Costing:     domain.Costing(item.Costing),
			BicycleType: domain.BicycleType(item.BicycleType),
		}.Normalize()
		if err != nil {
			return 0, fmt.Errorf("seed routes: item %q: %w", name, err)
		}

		if len(item.Points) < 2 {
			return 0, fmt.Errorf("seed routes: item %q: need at least 2 points, got %d", name, len(item.Points))
		}

		route := domain.SavedRoute{
			Name:              name,
			Costing:           opts.Costing,
			BicycleType:       opts.BicycleType,
			TotalDistance:     item.TotalDistance,
			EstimatedDuration: item.EstimatedDuration,
		}
		for _, p := range item.Points {
			route.Points = append(route.Points, domain.SavedPoint{
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
				PointType: domain.PointType(p.PointType),
				Name:      p.Name,
				Sequence:  p.Sequence,
			})
		}

		// Stored types must agree with order, whatever the file says.
		route.Points = domain.NewSavedRoute(name, domain.PointsFromSaved(route), opts, 0, 0).Points
		routes = append(routes, route)
	}

	existing, err := repo.ListRoutes(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed routes: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("seed routes: skipped existing=%d", len(existing))
		return 0, nil
	}

	for _, r := range routes {
		if _, err := repo.SaveRoute(ctx, r); err != nil {
			return 0, fmt.Errorf("seed routes: insert %q: %w", r.Name, err)
		}
	}

	return len(routes), nil
}
