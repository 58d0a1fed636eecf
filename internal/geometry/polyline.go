// Package geometry turns routing engine output into renderable route data.
package geometry

import (
	"bikeroute-service/internal/domain"
	"math"

	"github.com/twpayne/go-polyline"
)

// Precision used by the routing engine's encoded shapes.
const EnginePrecision = 6

// DecodePolyline decodes an encoded polyline at the given decimal precision.
//
// Each point is a latitude delta followed by a longitude delta, accumulated
// as integers and scaled by 10^precision. An empty string yields an empty
// slice. A truncated or invalid tail ends decoding; the points decoded so
// far are returned.
func DecodePolyline(encoded string, precision int) []domain.Coordinates {
	scale := math.Pow10(precision)
	buf := []byte(encoded)

	out := make([]domain.Coordinates, 0, len(buf)/4)
	var lat, lon int
	for len(buf) > 0 {
		dlat, rest, err := polyline.DecodeInt(buf)
		if err != nil {
			break
		}
		dlon, rest, err := polyline.DecodeInt(rest)
		if err != nil {
			break
		}
		buf = rest

		lat += dlat
		lon += dlon
		out = append(out, domain.Coordinates{
			Lat: float64(lat) / scale,
			Lon: float64(lon) / scale,
		})
	}

	return out
}

// EncodePolyline encodes coordinates at the given decimal precision.
func EncodePolyline(coords []domain.Coordinates, precision int) string {
	if len(coords) == 0 {
		return ""
	}

	codec := polyline.Codec{Dim: 2, Scale: math.Pow10(precision)}

	flat := make([][]float64, 0, len(coords))
	for _, c := range coords {
		flat = append(flat, []float64{c.Lat, c.Lon})
	}

	return string(codec.EncodeCoords(nil, flat))
}
