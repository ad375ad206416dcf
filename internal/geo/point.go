// Package geo handles geographic data structures and coordinate conversions.
package geo

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput reports non-finite coordinates or other unusable arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOutOfDomain reports coordinates the projection cannot represent.
	ErrOutOfDomain = errors.New("out of domain")
)

// GeoPoint is a WGS84 coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// PlanarPoint is a position in Web Mercator meters.
type PlanarPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Finite reports whether both coordinates are finite numbers.
func (p GeoPoint) Finite() bool {
	return isFinite(p.Lat) && isFinite(p.Lon)
}

// Validate checks that the point is finite and inside the lat/lon ranges.
func (p GeoPoint) Validate() error {
	if !p.Finite() {
		return fmt.Errorf("%w: non-finite coordinate (%v, %v)", ErrInvalidInput, p.Lat, p.Lon)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidInput, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidInput, p.Lon)
	}

	return nil
}

// CoordsToList returns the point as [lon, lat] (GeoJSON order).
func (p GeoPoint) CoordsToList() []float64 { return []float64{p.Lon, p.Lat} }

// Finite reports whether both coordinates are finite numbers.
func (q PlanarPoint) Finite() bool {
	return isFinite(q.X) && isFinite(q.Y)
}

// Bounds is a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundsOf returns the bounding box of the points.
// An empty slice gives the zero box.
func BoundsOf(points []GeoPoint) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	b := Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}

	return b
}

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
