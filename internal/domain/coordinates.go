package domain

import "math"

// Immutable geographic coordinates (WGS84 decimal degrees).
// Values are carried as given; nothing here range-checks them.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) ToLonLat() [2]float64 { return [2]float64{c.Lon, c.Lat} }

// IsNaN reports whether either component is NaN, e.g. after a failed geocode.
func (c Coordinates) IsNaN() bool { return math.IsNaN(c.Lat) || math.IsNaN(c.Lon) }
