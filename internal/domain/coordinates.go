package domain

import (
	"math"
	"strconv"
)

// Immutable geographic coordinates (longitude, latitude) in decimal degrees.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Valid reports whether both components are finite and inside the WGS84 range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Return coordinates as "lon,lat" for routing service URLs.
func (c Coordinates) LonLat() string {
	return strconv.FormatFloat(c.Lon, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lat, 'f', 6, 64)
}
