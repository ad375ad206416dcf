package geo

import (
	"errors"
	"math"
	"testing"
)

func TestDistanceIdenticalPoints(t *testing.T) {
	points := []GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 28.6139, Lon: 77.2090},
		{Lat: -89.9, Lon: 179.9},
		{Lat: 90, Lon: -180},
	}

	for _, p := range points {
		d, err := Distance(p, p)
		if err != nil {
			t.Fatalf("Distance(%v, %v): unexpected error: %v", p, p, err)
		}
		if d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]GeoPoint{
		{{Lat: 28.6139, Lon: 77.2090}, {Lat: 28.7041, Lon: 77.1025}},
		{{Lat: 51.5, Lon: -0.12}, {Lat: 40.71, Lon: -74.0}},
		{{Lat: -33.86, Lon: 151.2}, {Lat: 35.68, Lon: 139.69}},
		{{Lat: 10, Lon: 179.5}, {Lat: 10, Lon: -179.5}},
	}

	for _, pair := range pairs {
		ab, err := Distance(pair[0], pair[1])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ba, err := Distance(pair[1], pair[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ab != ba {
			t.Errorf("Distance not symmetric for %v: %v vs %v", pair, ab, ba)
		}
	}
}

func TestDistanceKnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b GeoPoint
		want float64
		tol  float64
	}{
		{"one degree of latitude", GeoPoint{0, 0}, GeoPoint{1, 0}, 111194.93, 0.01},
		{"delhi link", GeoPoint{28.6139, 77.2090}, GeoPoint{28.7041, 77.1025}, 14442.26, 0.5},
		{"across antimeridian", GeoPoint{0, 179.5}, GeoPoint{0, -179.5}, 111194.93, 0.01},
		{"antipodal on equator", GeoPoint{0, 0}, GeoPoint{0, 180}, math.Pi * EarthRadius, 1e-6},
		{"pole to pole", GeoPoint{90, 0}, GeoPoint{-90, 0}, math.Pi * EarthRadius, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Distance(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.IsNaN(got) || math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Distance = %.3f, want %.3f ±%v", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistanceRejectsNonFinite(t *testing.T) {
	bad := []GeoPoint{
		{Lat: math.NaN(), Lon: 0},
		{Lat: 0, Lon: math.Inf(1)},
		{Lat: math.Inf(-1), Lon: math.NaN()},
	}

	for _, p := range bad {
		if _, err := Distance(p, GeoPoint{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Distance(%v, origin) err = %v, want ErrInvalidInput", p, err)
		}
		if _, err := Distance(GeoPoint{}, p); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Distance(origin, %v) err = %v, want ErrInvalidInput", p, err)
		}
	}
}

func TestInterpolate(t *testing.T) {
	a := GeoPoint{Lat: 10, Lon: 20}
	b := GeoPoint{Lat: 20, Lon: 40}

	if got := Interpolate(a, b, 0); got != a {
		t.Errorf("Interpolate(t=0) = %v, want %v", got, a)
	}
	if got := Interpolate(a, b, 1); got != b {
		t.Errorf("Interpolate(t=1) = %v, want %v", got, b)
	}
	if got, want := Interpolate(a, b, 0.5), Midpoint(a, b); got != want {
		t.Errorf("Interpolate(t=0.5) = %v, want %v", got, want)
	}
}
