package geometry

import (
	"bikeroute-service/internal/domain"
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"
)

const gpxCreator = "bikeroute-service"

// ExportGPX writes a computed route as GPX 1.1: waypoints as named <wpt>
// elements and the stitched geometry as a single track segment.
func ExportGPX(name string, route *domain.MultiWaypointRoute) ([]byte, error) {
	doc := &gpx.GPX{
		Version: "1.1",
		Creator: gpxCreator,
		Name:    name,
	}

	for _, p := range route.Waypoints {
		doc.Waypoints = append(doc.Waypoints, gpx.GPXPoint{
			Point: gpx.Point{Latitude: p.Coordinates.Lat, Longitude: p.Coordinates.Lon},
			Name:  domain.DisplayName(p),
			Type:  string(p.Role),
		})
	}

	seg := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, 0, len(route.Geometry))}
	for _, c := range route.Geometry {
		seg.Points = append(seg.Points, gpx.GPXPoint{
			Point: gpx.Point{Latitude: c.Lat, Longitude: c.Lon},
		})
	}
	doc.Tracks = []gpx.GPXTrack{{
		Name:     name,
		Type:     string(route.Options.Costing),
		Segments: []gpx.GPXTrackSegment{seg},
	}}

	b, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("export gpx: %w", err)
	}

	return b, nil
}
