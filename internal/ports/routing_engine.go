package ports

import (
	"bikeroute-service/internal/domain"
	"context"
)

// Request for a routed path through ordered locations.
// BicycleType is only meaningful when Costing is bicycle.
type EngineRequest struct {
	Locations   []domain.Coordinates
	Costing     domain.Costing
	BicycleType domain.BicycleType
}

// Engine-reported length (kilometers) and time (seconds).
// Nil fields were absent from the engine response.
type EngineSummary struct {
	Length *float64 `json:"length,omitempty"`
	Time   *float64 `json:"time,omitempty"`
}

// One routed leg with its polyline-encoded shape.
type EngineLeg struct {
	Shape   string         `json:"shape"`
	Summary *EngineSummary `json:"summary,omitempty"`
}

// Raw routing engine result. A nil Legs slice means the engine sent none.
type EngineResponse struct {
	Legs    []EngineLeg    `json:"legs"`
	Summary *EngineSummary `json:"summary,omitempty"`
}

// Contract for requesting a routed path from an external engine.
type RoutingEngine interface {
	Route(ctx context.Context, req EngineRequest) (*EngineResponse, error)
}
