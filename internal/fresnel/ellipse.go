package fresnel

import (
	"fmt"
	"math"

	"github.com/woozymasta/rflink/internal/geo"
)

// Ellipse builds a polygon of segments vertices approximating an ellipse
// whose major axis joins a and b, with the given semi-minor axis in meters.
//
// The shape is built in Web Mercator space: semi-major is half the projected
// length of a-b and semi-minor is taken as projected meters. Vertices start
// at the b end of the axis and run counter-clockwise (east = +x, north = +y).
// The ring is open: the edge from the last vertex back to the first is implied.
//
// When a and b coincide the ellipse degenerates to a circle of radius semiMinor.
func Ellipse(a, b geo.GeoPoint, semiMinor float64, segments int) ([]geo.GeoPoint, error) {
	if err := checkSegments(segments); err != nil {
		return nil, err
	}
	if !finite(semiMinor) || semiMinor < 0 {
		return nil, fmt.Errorf("%w: semi-minor axis %v must be finite and non-negative", geo.ErrInvalidInput, semiMinor)
	}

	pa, err := geo.Project(a)
	if err != nil {
		return nil, err
	}
	pb, err := geo.Project(b)
	if err != nil {
		return nil, err
	}

	mid := geo.PlanarPoint{X: (pa.X + pb.X) / 2, Y: (pa.Y + pb.Y) / 2}
	dx, dy := pb.X-pa.X, pb.Y-pa.Y

	semiMajor := math.Hypot(dx, dy) / 2
	angle := math.Atan2(dy, dx) // 0 for coincident points
	if semiMajor == 0 {
		semiMajor = semiMinor
	}

	sinA, cosA := math.Sincos(angle)

	points := make([]geo.GeoPoint, 0, segments)
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		sinT, cosT := math.Sincos(theta)

		x := semiMajor * cosT
		y := semiMinor * sinT

		p, err := geo.Unproject(geo.PlanarPoint{
			X: mid.X + x*cosA - y*sinA,
			Y: mid.Y + x*sinA + y*cosA,
		})
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	return points, nil
}
