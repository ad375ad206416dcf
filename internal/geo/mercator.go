package geo

import (
	"fmt"
	"math"
)

// MercatorRadius is the WGS84 semi-major axis used by Web Mercator (meters).
const MercatorRadius = 6378137.0

// MaxMercatorLat is the latitude where the square Web Mercator world ends.
// Project accepts anything below 90 degrees; tile math clamps to this value.
const MaxMercatorLat = 85.05112878

// Project converts a geographic point to Web Mercator meters.
//
// Latitudes at or beyond ±90 degrees diverge and fail with ErrOutOfDomain.
// Between ±85 and ±90 the result is finite but grows without bound.
func Project(p GeoPoint) (PlanarPoint, error) {
	if !p.Finite() {
		return PlanarPoint{}, fmt.Errorf("%w: non-finite coordinate (%v, %v)", ErrInvalidInput, p.Lat, p.Lon)
	}
	if math.Abs(p.Lat) >= 90 {
		return PlanarPoint{}, fmt.Errorf("%w: latitude %v cannot be projected", ErrOutOfDomain, p.Lat)
	}

	x := MercatorRadius * toRad(p.Lon)
	y := MercatorRadius * math.Log(math.Tan(math.Pi/4+toRad(p.Lat)/2))

	return PlanarPoint{X: x, Y: y}, nil
}

// Unproject converts Web Mercator meters back to a geographic point.
func Unproject(q PlanarPoint) (GeoPoint, error) {
	if !q.Finite() {
		return GeoPoint{}, fmt.Errorf("%w: non-finite planar coordinate (%v, %v)", ErrInvalidInput, q.X, q.Y)
	}

	lon := toDeg(q.X / MercatorRadius)
	lat := toDeg(2*math.Atan(math.Exp(q.Y/MercatorRadius)) - math.Pi/2)

	return GeoPoint{Lat: lat, Lon: lon}, nil
}
