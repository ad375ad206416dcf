// Package fresnel computes first Fresnel zone radii and the ellipse polygon
// drawn around a point-to-point radio link.
package fresnel

import (
	"fmt"
	"math"

	"github.com/woozymasta/rflink/internal/geo"
)

// SpeedOfLight is the propagation speed used for wavelengths (m/s).
// Rounded from 299,792,458; radii and wavelengths are reported with this value.
const SpeedOfLight = 3e8

// GHz is the number of hertz in a gigahertz.
const GHz = 1e9

// Wavelength returns c/f in meters.
func Wavelength(frequencyHz float64) (float64, error) {
	if !finite(frequencyHz) || frequencyHz <= 0 {
		return 0, fmt.Errorf("%w: frequency %v Hz must be positive", geo.ErrInvalidInput, frequencyHz)
	}

	lambda := SpeedOfLight / frequencyHz
	if !finite(lambda) {
		return 0, fmt.Errorf("%w: frequency %v Hz gives a non-finite wavelength", geo.ErrInvalidInput, frequencyHz)
	}
	return lambda, nil
}

// FirstRadius returns the first Fresnel zone radius in meters at the point
// splitting the path into d1 and d2 meters.
func FirstRadius(d1, d2, frequencyHz float64) (float64, error) {
	lambda, err := Wavelength(frequencyHz)
	if err != nil {
		return 0, err
	}
	if !finite(d1) || !finite(d2) || d1 < 0 || d2 < 0 {
		return 0, fmt.Errorf("%w: leg distances (%v, %v) must be finite and non-negative", geo.ErrInvalidInput, d1, d2)
	}
	if d1+d2 <= 0 {
		return 0, fmt.Errorf("%w: total path length must be positive", geo.ErrInvalidInput)
	}

	r := math.Sqrt(lambda * d1 * d2 / (d1 + d2))
	if !finite(r) {
		return 0, fmt.Errorf("%w: radius overflows for legs (%v, %v)", geo.ErrInvalidInput, d1, d2)
	}
	return r, nil
}

// MidpointRadius returns the radius at the middle of a path of the given
// length, which is the largest radius along the path.
// A zero-length path gives 0, the limit of the formula.
func MidpointRadius(distance, frequencyHz float64) (float64, error) {
	if distance == 0 {
		if _, err := Wavelength(frequencyHz); err != nil {
			return 0, err
		}
		return 0, nil
	}

	return FirstRadius(distance/2, distance/2, frequencyHz)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
