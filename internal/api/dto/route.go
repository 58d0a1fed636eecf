package dto

import (
	"time"

	"github.com/paulmach/orb/geojson"
)

// WaypointInput is a point submitted by a client. Array position is order.
type WaypointInput struct {
	ID        string  `json:"id,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
}

type OptionsRequest struct {
	Costing     string `json:"costing,omitempty"`
	BicycleType string `json:"bicycleType,omitempty"`
	LineColor   string `json:"lineColor,omitempty"`
	LineWidth   int    `json:"lineWidth,omitempty"`
}

type ComputeRequest struct {
	Points  []WaypointInput `json:"points"`
	Options OptionsRequest  `json:"options"`
}

type WaypointResponse struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Order     int     `json:"order"`
	Label     string  `json:"label"`
	IconClass string  `json:"iconClass"`
}

type CoordinatesResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LegResponse struct {
	StartPoint CoordinatesResponse `json:"startPoint"`
	EndPoint   CoordinatesResponse `json:"endPoint"`
	Distance   float64             `json:"distance"`
	Duration   float64             `json:"duration"`
	PointCount int                 `json:"pointCount"`
}

type StyleResponse struct {
	LineColor string `json:"lineColor"`
	LineWidth int    `json:"lineWidth"`
}

// RouteResponse is a computed route. Geometry is a bare GeoJSON LineString,
// so [lon, lat].
type RouteResponse struct {
	Waypoints     []WaypointResponse         `json:"waypoints"`
	Legs          []LegResponse              `json:"legs"`
	TotalDistance float64                    `json:"totalDistance"`
	TotalDuration float64                    `json:"totalDuration"`
	Costing       string                     `json:"costing"`
	BicycleType   string                     `json:"bicycleType,omitempty"`
	Geometry      *geojson.Geometry          `json:"geometry"`
	Style         StyleResponse              `json:"style"`
	Markers       *geojson.FeatureCollection `json:"markers"`
}

type SavedPointDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PointType string  `json:"pointType"`
	Name      string  `json:"name"`
	Sequence  int     `json:"sequence"`
}

type SaveRouteRequest struct {
	Name              string          `json:"name"`
	Costing           string          `json:"costing,omitempty"`
	BicycleType       string          `json:"bicycleType,omitempty"`
	Points            []SavedPointDTO `json:"points"`
	TotalDistance     float64         `json:"totalDistance"`
	EstimatedDuration float64         `json:"estimatedDuration"`
}

type SaveRouteResponse struct {
	ID int64 `json:"id"`
}

type SavedRouteResponse struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Costing           string          `json:"costing"`
	BicycleType       string          `json:"bicycleType,omitempty"`
	Points            []SavedPointDTO `json:"points"`
	TotalDistance     float64         `json:"totalDistance"`
	EstimatedDuration float64         `json:"estimatedDuration"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type RouteSummaryResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	PointCount        int       `json:"pointCount"`
	TotalDistance     float64   `json:"totalDistance"`
	EstimatedDuration float64   `json:"estimatedDuration"`
	CreatedAt         time.Time `json:"createdAt"`
}

type ListRoutesResponse struct {
	Routes []RouteSummaryResponse `json:"routes"`
}

// ReloadResponse pairs a saved route with freshly computed geometry.
type ReloadResponse struct {
	Saved SavedRouteResponse `json:"saved"`
	Route RouteResponse      `json:"route"`
}
