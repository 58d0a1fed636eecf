package valhalla

import (
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/ports"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

type location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type bicycleOptions struct {
	BicycleType string `json:"bicycle_type"`
}

type costingOptions struct {
	Bicycle *bicycleOptions `json:"bicycle,omitempty"`
}

// routeRequest is the body of the engine's /route call.
type routeRequest struct {
	Locations      []location      `json:"locations"`
	Costing        string          `json:"costing"`
	CostingOptions *costingOptions `json:"costing_options,omitempty"`
	Units          string          `json:"units"`
}

// routeResponse is the envelope the engine wraps a trip in.
type routeResponse struct {
	Trip *ports.EngineResponse `json:"trip"`
}

func buildRequest(req ports.EngineRequest) routeRequest {
	locs := make([]location, 0, len(req.Locations))
	for _, c := range req.Locations {
		locs = append(locs, location{Lat: c.Lat, Lon: c.Lon})
	}

	out := routeRequest{
		Locations: locs,
		Costing:   string(req.Costing),
		Units:     "kilometers",
	}

	if req.Costing == domain.CostingBicycle && req.BicycleType != "" {
		out.CostingOptions = &costingOptions{
			Bicycle: &bicycleOptions{BicycleType: string(req.BicycleType)},
		}
	}

	return out
}

func encodeRequest(req ports.EngineRequest) ([]byte, error) {
	// JSON has no NaN; name the offending location instead of failing in the encoder.
	for i, c := range req.Locations {
		if c.IsNaN() {
			return nil, fmt.Errorf("encode route request: location %d is not a number", i)
		}
	}

	b, err := json.Marshal(buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("encode route request: %w", err)
	}
	return b, nil
}

// cacheKey fingerprints the encoded request body.
func cacheKey(body []byte) string {
	sum := sha256.Sum256(body)
	return "route:" + hex.EncodeToString(sum[:])
}
