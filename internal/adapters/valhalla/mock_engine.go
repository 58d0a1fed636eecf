package valhalla

import (
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/geometry"
	"bikeroute-service/internal/ports"
	"context"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Cruising speeds the mock uses to turn distance into time, in km/h.
var mockSpeeds = map[domain.Costing]float64{
	domain.CostingBicycle:    18,
	domain.CostingPedestrian: 5,
}

// MockEngine is an in-process RoutingEngine that joins consecutive
// locations with straight legs. Err, when set, is returned from every call.
type MockEngine struct {
	Err error

	mu    sync.Mutex
	calls []ports.EngineRequest
}

func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

func (m *MockEngine) Route(ctx context.Context, req ports.EngineRequest) (*ports.EngineResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if len(req.Locations) < 2 {
		return nil, fmt.Errorf("mock route: need at least 2 locations, got %d", len(req.Locations))
	}

	speed, ok := mockSpeeds[req.Costing]
	if !ok {
		speed = mockSpeeds[domain.CostingBicycle]
	}

	var totalKm, totalSec float64
	legs := make([]ports.EngineLeg, 0, len(req.Locations)-1)
	for i := 0; i+1 < len(req.Locations); i++ {
		from, to := req.Locations[i], req.Locations[i+1]

		km := geo.Distance(orb.Point(from.ToLonLat()), orb.Point(to.ToLonLat())) / 1000
		sec := km / speed * 3600
		totalKm += km
		totalSec += sec

		legs = append(legs, ports.EngineLeg{
			Shape:   geometry.EncodePolyline([]domain.Coordinates{from, to}, geometry.EnginePrecision),
			Summary: &ports.EngineSummary{Length: &km, Time: &sec},
		})
	}

	return &ports.EngineResponse{
		Legs:    legs,
		Summary: &ports.EngineSummary{Length: &totalKm, Time: &totalSec},
	}, nil
}

// Calls returns the requests seen so far.
func (m *MockEngine) Calls() []ports.EngineRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ports.EngineRequest, len(m.calls))
	copy(out, m.calls)
	return out
}
