package geo

import (
	"fmt"
	"math"
)

// EarthRadius is the mean sphere radius used for great-circle distances (meters).
// It differs from MercatorRadius; both values are kept as they are.
const EarthRadius = 6371000.0

// Distance returns the haversine great-circle distance between two points in meters.
func Distance(p1, p2 GeoPoint) (float64, error) {
	if !p1.Finite() || !p2.Finite() {
		return 0, fmt.Errorf("%w: non-finite coordinate", ErrInvalidInput)
	}

	lat1, lat2 := toRad(p1.Lat), toRad(p2.Lat)
	dLat := lat2 - lat1
	dLon := toRad(p2.Lon - p1.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// rounding can push a slightly outside [0, 1] near antipodes
	a = math.Max(0, math.Min(1, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadius * c, nil
}

// Midpoint returns the arithmetic lat/lon midpoint of two points.
func Midpoint(p1, p2 GeoPoint) GeoPoint {
	return GeoPoint{Lat: (p1.Lat + p2.Lat) / 2, Lon: (p1.Lon + p2.Lon) / 2}
}

// Interpolate returns the point at fraction t along the straight lat/lon segment p1-p2.
func Interpolate(p1, p2 GeoPoint, t float64) GeoPoint {
	return GeoPoint{
		Lat: p1.Lat + (p2.Lat-p1.Lat)*t,
		Lon: p1.Lon + (p2.Lon-p1.Lon)*t,
	}
}
