package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Costing is the routing engine's travel-mode profile.
type Costing string

const (
	CostingBicycle    Costing = "bicycle"
	CostingPedestrian Costing = "pedestrian"
)

// BicycleType is the sub-profile used when Costing is bicycle.
type BicycleType string

const (
	BicycleRoad     BicycleType = "Road"
	BicycleHybrid   BicycleType = "Hybrid"
	BicycleCity     BicycleType = "City"
	BicycleCross    BicycleType = "Cross"
	BicycleMountain BicycleType = "Mountain"
)

const (
	DefaultCosting     = CostingBicycle
	DefaultBicycleType = BicycleHybrid
	DefaultLineColor   = "#3b82f6"
	DefaultLineWidth   = 4
)

var ErrInvalidRouteOptions = errors.New("invalid route options")

// Routing profile plus cosmetic render hints. LineColor and LineWidth are
// never sent to the engine; they ride along to the renderer.
type RouteOptions struct {
	Costing     Costing
	BicycleType BicycleType
	LineColor   string
	LineWidth   int
}

// Normalize fills defaults and rejects profiles the engine does not know.
// BicycleType is cleared for non-bicycle costing.
func (o RouteOptions) Normalize() (RouteOptions, error) {
	if o.Costing == "" {
		o.Costing = DefaultCosting
	}
	o.Costing = Costing(strings.ToLower(string(o.Costing)))

	switch o.Costing {
	case CostingBicycle:
		if o.BicycleType == "" {
			o.BicycleType = DefaultBicycleType
		}
		bt, ok := parseBicycleType(string(o.BicycleType))
		if !ok {
			return RouteOptions{}, fmt.Errorf("%w: unknown bicycle type %q", ErrInvalidRouteOptions, o.BicycleType)
		}
		o.BicycleType = bt
	case CostingPedestrian:
		o.BicycleType = ""
	default:
		return RouteOptions{}, fmt.Errorf("%w: unknown costing %q", ErrInvalidRouteOptions, o.Costing)
	}

	if o.LineColor == "" {
		o.LineColor = DefaultLineColor
	}
	if o.LineWidth <= 0 {
		o.LineWidth = DefaultLineWidth
	}

	return o, nil
}

func parseBicycleType(s string) (BicycleType, bool) {
	for _, bt := range []BicycleType{BicycleRoad, BicycleHybrid, BicycleCity, BicycleCross, BicycleMountain} {
		if strings.EqualFold(s, string(bt)) {
			return bt, true
		}
	}
	return "", false
}

// Represents the routed path between two consecutive route points.
// Distance is in kilometers, Duration in seconds.
type RouteLeg struct {
	StartPoint Coordinates
	EndPoint   Coordinates
	Distance   float64
	Duration   float64
	Geometry   []Coordinates
}

// Rendering metadata kept apart from the coordinate data.
type RenderStyle struct {
	LineColor string
	LineWidth int
}

// Represents the result of routing through an ordered point sequence.
// It is recomputed from scratch whenever the waypoints change.
type MultiWaypointRoute struct {
	Waypoints     []RoutePoint
	Legs          []RouteLeg
	TotalDistance float64
	TotalDuration float64
	Geometry      []Coordinates
	Options       RouteOptions
	Style         RenderStyle
}
