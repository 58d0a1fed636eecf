package geometry

import (
	"bikeroute-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LineString converts (lat, lon) route geometry to an orb line in (lon, lat)
// order. This is the only place the axis order flips.
func LineString(coords []domain.Coordinates) orb.LineString {
	ls := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		ls = append(ls, orb.Point(c.ToLonLat()))
	}
	return ls
}

// RenderGeometry returns the map sink payload for a route:
// {"type":"LineString","coordinates":[[lon,lat],...]}.
func RenderGeometry(route *domain.MultiWaypointRoute) *geojson.Geometry {
	return geojson.NewGeometry(LineString(route.Geometry))
}

// RenderWaypoints returns one point feature per waypoint, tagged with the
// marker style and label the renderer shows.
func RenderWaypoints(points []domain.RoutePoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(orb.Point(p.Coordinates.ToLonLat()))
		f.ID = p.ID
		f.Properties["role"] = string(p.Role)
		f.Properties["order"] = p.Order
		f.Properties["label"] = domain.DisplayName(p)
		f.Properties["iconClass"] = domain.IconClass(p.Role)
		fc.Append(f)
	}
	return fc
}
