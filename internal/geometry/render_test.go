package geometry

import (
	"bikeroute-service/internal/domain"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkrajina/gpxgo/gpx"
)

func sampleRoute() *domain.MultiWaypointRoute {
	points := waypoints(
		domain.Coordinates{Lat: 52.52, Lon: 13.405},
		domain.Coordinates{Lat: 52.53, Lon: 13.41},
	)
	points[0].Name = "Alexanderplatz"

	return &domain.MultiWaypointRoute{
		Waypoints: points,
		Geometry: []domain.Coordinates{
			{Lat: 52.52, Lon: 13.405},
			{Lat: 52.5205, Lon: 13.4061},
			{Lat: 52.53, Lon: 13.41},
		},
		TotalDistance: 1.3,
		TotalDuration: 300,
		Options:       domain.RouteOptions{Costing: domain.CostingBicycle},
		Style:         domain.RenderStyle{LineColor: "#3b82f6", LineWidth: 4},
	}
}

func TestRenderGeometry_FlipsToLonLat(t *testing.T) {
	b, err := json.Marshal(RenderGeometry(sampleRoute()))
	require.NoError(t, err)

	var got struct {
		Type        string       `json:"type"`
		Coordinates [][2]float64 `json:"coordinates"`
	}
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, "LineString", got.Type)
	assert.Equal(t, [][2]float64{{13.405, 52.52}, {13.4061, 52.5205}, {13.41, 52.53}}, got.Coordinates)
}

func TestRenderGeometry_EmptyRoute(t *testing.T) {
	b, err := json.Marshal(RenderGeometry(&domain.MultiWaypointRoute{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"LineString","coordinates":[]}`, string(b))
}

func TestRenderWaypoints(t *testing.T) {
	fc := RenderWaypoints(sampleRoute().Waypoints)
	require.Len(t, fc.Features, 2)

	assert.Equal(t, "start-style", fc.Features[0].Properties["iconClass"])
	assert.Equal(t, "Alexanderplatz", fc.Features[0].Properties["label"])
	assert.Equal(t, "end-style", fc.Features[1].Properties["iconClass"])
	assert.Equal(t, "52.5300, 13.4100", fc.Features[1].Properties["label"])
}

func TestExportGPX(t *testing.T) {
	b, err := ExportGPX("Spree ride", sampleRoute())
	require.NoError(t, err)

	doc, err := gpx.ParseBytes(b)
	require.NoError(t, err)

	require.Len(t, doc.Waypoints, 2)
	assert.Equal(t, "Alexanderplatz", doc.Waypoints[0].Name)
	require.Len(t, doc.Tracks, 1)
	assert.Equal(t, "Spree ride", doc.Tracks[0].Name)
	require.Len(t, doc.Tracks[0].Segments, 1)
	pts := doc.Tracks[0].Segments[0].Points
	require.Len(t, pts, 3)
	assert.InDelta(t, 52.5205, pts[1].Latitude, 1e-9)
	assert.InDelta(t, 13.4061, pts[1].Longitude, 1e-9)
}
