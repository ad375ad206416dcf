package fresnel

import (
	"fmt"

	"github.com/woozymasta/rflink/internal/geo"
)

// DefaultSegments is the vertex count used when the caller passes 0.
const DefaultSegments = 120

// MaxSegments is the largest accepted vertex count.
const MaxSegments = 4096

// Link is a pair of endpoints sharing one carrier frequency.
type Link struct {
	A            geo.GeoPoint `json:"a" yaml:"a"`
	B            geo.GeoPoint `json:"b" yaml:"b"`
	FrequencyGHz float64      `json:"frequency_ghz" yaml:"frequency_ghz"`
}

// Zone is the first Fresnel zone of a link.
//
// RadiusMeters is the midpoint radius and is used as a uniform semi-minor
// axis. It overstates the zone width near the endpoints, where the true
// radius goes to zero.
type Zone struct {
	Polygon          []geo.GeoPoint `json:"polygon" yaml:"polygon"`
	RadiusMeters     float64        `json:"radius_m" yaml:"radius_m"`
	DistanceMeters   float64        `json:"distance_m" yaml:"distance_m"`
	WavelengthMeters float64        `json:"wavelength_m" yaml:"wavelength_m"`
	FrequencyGHz     float64        `json:"frequency_ghz" yaml:"frequency_ghz"`
	Segments         int            `json:"segments" yaml:"segments"`
}

// Compute returns the Fresnel zone of the link a-b at frequencyGHz,
// with a polygon of segments vertices (DefaultSegments when 0).
func Compute(a, b geo.GeoPoint, frequencyGHz float64, segments int) (Zone, error) {
	if segments == 0 {
		segments = DefaultSegments
	}
	if err := checkSegments(segments); err != nil {
		return Zone{}, err
	}
	if !finite(frequencyGHz) || frequencyGHz <= 0 {
		return Zone{}, fmt.Errorf("%w: frequency %v GHz must be positive", geo.ErrInvalidInput, frequencyGHz)
	}

	// projection domain is checked before distance so polar input reports ErrOutOfDomain
	for _, p := range []geo.GeoPoint{a, b} {
		if _, err := geo.Project(p); err != nil {
			return Zone{}, err
		}
	}

	distance, err := geo.Distance(a, b)
	if err != nil {
		return Zone{}, err
	}

	frequencyHz := frequencyGHz * GHz
	lambda, err := Wavelength(frequencyHz)
	if err != nil {
		return Zone{}, err
	}
	radius, err := MidpointRadius(distance, frequencyHz)
	if err != nil {
		return Zone{}, err
	}

	polygon, err := Ellipse(a, b, radius, segments)
	if err != nil {
		return Zone{}, err
	}

	return Zone{
		Polygon:          polygon,
		RadiusMeters:     radius,
		DistanceMeters:   distance,
		WavelengthMeters: lambda,
		FrequencyGHz:     frequencyGHz,
		Segments:         segments,
	}, nil
}

func checkSegments(segments int) error {
	if segments < 3 || segments > MaxSegments {
		return fmt.Errorf("%w: segments %d outside [3, %d]", geo.ErrInvalidInput, segments, MaxSegments)
	}
	return nil
}

// Compute returns the zone of the link with the given polygon resolution.
func (l Link) Compute(segments int) (Zone, error) {
	return Compute(l.A, l.B, l.FrequencyGHz, segments)
}

// Feature returns the zone polygon as a GeoJSON feature with its metrics as properties.
func (z Zone) Feature() geo.GeoJSONFeature {
	return geo.PolygonFeature(z.Polygon, map[string]interface{}{
		"kind":          "fresnel_zone",
		"radius_m":      z.RadiusMeters,
		"distance_m":    z.DistanceMeters,
		"wavelength_m":  z.WavelengthMeters,
		"frequency_ghz": z.FrequencyGHz,
		"segments":      z.Segments,
	})
}
