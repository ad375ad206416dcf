package fresnel

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/woozymasta/rflink/internal/geo"
)

var (
	delhiA = geo.GeoPoint{Lat: 28.6139, Lon: 77.2090}
	delhiB = geo.GeoPoint{Lat: 28.7041, Lon: 77.1025}
)

func mustProject(t *testing.T, p geo.GeoPoint) geo.PlanarPoint {
	t.Helper()

	q, err := geo.Project(p)
	if err != nil {
		t.Fatalf("Project(%v): %v", p, err)
	}
	return q
}

func TestComputeDelhiLink(t *testing.T) {
	const segments = 64

	zone, err := Compute(delhiA, delhiB, 5.0, segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(zone.DistanceMeters-14442.26) > 0.5 {
		t.Errorf("distance = %.2f, want 14442.26", zone.DistanceMeters)
	}
	if math.Abs(zone.WavelengthMeters-0.06) > 1e-12 {
		t.Errorf("wavelength = %v, want 0.06", zone.WavelengthMeters)
	}
	wantR := math.Sqrt(0.06 * zone.DistanceMeters / 4)
	if math.Abs(zone.RadiusMeters-wantR) > 1e-9 || math.Abs(zone.RadiusMeters-14.72) > 0.01 {
		t.Errorf("radius = %.4f, want %.4f", zone.RadiusMeters, wantR)
	}
	if len(zone.Polygon) != segments {
		t.Fatalf("polygon has %d vertices, want %d", len(zone.Polygon), segments)
	}

	pa, pb := mustProject(t, delhiA), mustProject(t, delhiB)
	mid := geo.PlanarPoint{X: (pa.X + pb.X) / 2, Y: (pa.Y + pb.Y) / 2}
	semiMajor := math.Hypot(pb.X-pa.X, pb.Y-pa.Y) / 2

	for i, p := range zone.Polygon {
		if err := p.Validate(); err != nil {
			t.Fatalf("vertex %d invalid: %v", i, err)
		}
		q := mustProject(t, p)
		if d := math.Hypot(q.X-mid.X, q.Y-mid.Y); d > semiMajor+1e-6 {
			t.Errorf("vertex %d is %.3f m from the centre, beyond semi-major %.3f m", i, d, semiMajor)
		}
	}

	// the major axis runs from the b vertex (θ=0) to the a vertex (θ=π)
	if !near(zone.Polygon[0], delhiB, 1e-9) {
		t.Errorf("first vertex = %v, want %v", zone.Polygon[0], delhiB)
	}
	if !near(zone.Polygon[segments/2], delhiA, 1e-9) {
		t.Errorf("opposite vertex = %v, want %v", zone.Polygon[segments/2], delhiA)
	}

	box := geo.BoundsOf(zone.Polygon)
	if !box.Contains(geo.Midpoint(delhiA, delhiB)) {
		t.Errorf("bounds %+v do not contain the link midpoint", box)
	}
}

func TestComputeDefaultSegments(t *testing.T) {
	zone, err := Compute(delhiA, delhiB, 5.0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zone.Segments != DefaultSegments || len(zone.Polygon) != DefaultSegments {
		t.Errorf("segments = %d, polygon = %d, want %d", zone.Segments, len(zone.Polygon), DefaultSegments)
	}
}

func TestComputeFrequencyScaling(t *testing.T) {
	z5, err := Compute(delhiA, delhiB, 5.0, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	z10, err := Compute(delhiA, delhiB, 10.0, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ratio := z5.RadiusMeters / z10.RadiusMeters; math.Abs(ratio-math.Sqrt2) > 1e-12 {
		t.Errorf("r(5 GHz)/r(10 GHz) = %v, want √2", ratio)
	}
}

func TestComputeDegenerateLink(t *testing.T) {
	zone, err := Compute(delhiA, delhiA, 5.0, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zone.DistanceMeters != 0 || zone.RadiusMeters != 0 {
		t.Errorf("distance = %v, radius = %v, want 0, 0", zone.DistanceMeters, zone.RadiusMeters)
	}
	if len(zone.Polygon) != 32 {
		t.Fatalf("polygon has %d vertices, want 32", len(zone.Polygon))
	}
	for i, p := range zone.Polygon {
		if !p.Finite() || !near(p, delhiA, 1e-9) {
			t.Errorf("vertex %d = %v, want %v", i, p, delhiA)
		}
	}
}

func TestEllipseCoincidentPointsIsCircle(t *testing.T) {
	const r = 10.0

	points, err := Ellipse(delhiA, delhiA, r, 48)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	centre := mustProject(t, delhiA)
	for i, p := range points {
		q := mustProject(t, p)
		if d := math.Hypot(q.X-centre.X, q.Y-centre.Y); math.Abs(d-r) > 1e-6 {
			t.Errorf("vertex %d at %.9f m, want %v", i, d, r)
		}
	}
}

func TestEllipseCounterClockwise(t *testing.T) {
	links := [][2]geo.GeoPoint{
		{delhiA, delhiB},
		{delhiB, delhiA},
		{{Lat: -33.9, Lon: 18.4}, {Lat: -33.8, Lon: 18.6}},
		{{Lat: 60, Lon: -0.5}, {Lat: 60, Lon: 0.5}},
	}

	for _, l := range links {
		points, err := Ellipse(l[0], l[1], 500, 36)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var area float64
		for i := range points {
			p := mustProject(t, points[i])
			q := mustProject(t, points[(i+1)%len(points)])
			area += p.X*q.Y - q.X*p.Y
		}
		if area <= 0 {
			t.Errorf("link %v: signed area %v, want counter-clockwise (positive)", l, area)
		}
	}
}

func TestComputeInvalidFrequency(t *testing.T) {
	for _, f := range []float64{0, -1, -5.8, math.NaN(), math.Inf(1)} {
		_, err := Compute(delhiA, delhiB, f, 64)
		if !errors.Is(err, geo.ErrInvalidInput) {
			t.Errorf("Compute(f=%v) err = %v, want ErrInvalidInput", f, err)
		}
	}
}

func TestComputeOutOfDomain(t *testing.T) {
	polar := []geo.GeoPoint{{Lat: 90, Lon: 0}, {Lat: -90, Lon: 45}, {Lat: 91, Lon: 0}}
	for _, p := range polar {
		if _, err := Compute(p, delhiB, 5, 64); !errors.Is(err, geo.ErrOutOfDomain) {
			t.Errorf("Compute(a=%v) err = %v, want ErrOutOfDomain", p, err)
		}
		if _, err := Compute(delhiA, p, 5, 64); !errors.Is(err, geo.ErrOutOfDomain) {
			t.Errorf("Compute(b=%v) err = %v, want ErrOutOfDomain", p, err)
		}
	}
}

func TestComputeInvalidSegments(t *testing.T) {
	for _, n := range []int{1, 2, -4, MaxSegments + 1, 1 << 62} {
		if _, err := Compute(delhiA, delhiB, 5, n); !errors.Is(err, geo.ErrInvalidInput) {
			t.Errorf("Compute(segments=%d) err = %v, want ErrInvalidInput", n, err)
		}
		if _, err := Ellipse(delhiA, delhiB, 10, n); !errors.Is(err, geo.ErrInvalidInput) {
			t.Errorf("Ellipse(segments=%d) err = %v, want ErrInvalidInput", n, err)
		}
	}

	z, err := Compute(delhiA, delhiB, 5, MaxSegments)
	if err != nil {
		t.Fatalf("Compute(segments=MaxSegments): %v", err)
	}
	if len(z.Polygon) != MaxSegments {
		t.Errorf("got %d vertices, want %d", len(z.Polygon), MaxSegments)
	}
}

func TestComputeConcurrent(t *testing.T) {
	want, err := Compute(delhiA, delhiB, 5, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Compute(delhiA, delhiB, 5, 90)
			if err != nil {
				errs <- err.Error()
				return
			}
			for j := range got.Polygon {
				if got.Polygon[j] != want.Polygon[j] {
					errs <- "polygon differs between calls"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

func TestZoneFeature(t *testing.T) {
	zone, err := Link{A: delhiA, B: delhiB, FrequencyGHz: 5}.Compute(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := zone.Feature()
	if f.Geometry.Type != "Polygon" {
		t.Errorf("geometry type = %q, want Polygon", f.Geometry.Type)
	}
	if f.Properties["segments"] != 8 {
		t.Errorf("segments property = %v, want 8", f.Properties["segments"])
	}
}

func near(a, b geo.GeoPoint, tol float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tol && math.Abs(a.Lon-b.Lon) <= tol
}
