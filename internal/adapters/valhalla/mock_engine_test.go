package valhalla

import (
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/geometry"
	"bikeroute-service/internal/ports"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEngine_ProducesProcessableRoute(t *testing.T) {
	m := NewMockEngine()

	var points []domain.RoutePoint
	points = domain.AddPoint(points, domain.Coordinates{Lat: 52.52, Lon: 13.405}, "")
	points = domain.AddPoint(points, domain.Coordinates{Lat: 52.5205, Lon: 13.4061}, "")
	points = domain.AddPoint(points, domain.Coordinates{Lat: 52.53, Lon: 13.41}, "")

	resp, err := m.Route(context.Background(), ports.EngineRequest{
		Locations: domain.CoordinatesOf(points),
		Costing:   domain.CostingBicycle,
	})
	require.NoError(t, err)
	require.Len(t, resp.Legs, 2)

	route, err := geometry.ProcessRoute(points, resp, domain.RouteOptions{})
	require.NoError(t, err)

	assert.Len(t, route.Geometry, 3)
	assert.Greater(t, route.TotalDistance, 1.0)
	assert.InDelta(t, route.TotalDistance/18*3600, route.TotalDuration, 1e-6)
	assert.Len(t, m.Calls(), 1)
}

func TestMockEngine_ReturnsConfiguredError(t *testing.T) {
	boom := errors.New("boom")
	m := &MockEngine{Err: boom}

	_, err := m.Route(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, boom)
}
