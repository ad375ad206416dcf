package geo

import (
	"math"
	"testing"
)

func TestPixelXY(t *testing.T) {
	x, y, err := PixelXY(GeoPoint{Lat: 0, Lon: 0}, 0, DefaultTileSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(x-128) > 1e-9 || math.Abs(y-128) > 1e-9 {
		t.Errorf("PixelXY(origin, z0) = (%v, %v), want (128, 128)", x, y)
	}

	x, y, err = PixelXY(GeoPoint{Lat: 90, Lon: -180}, 1, DefaultTileSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(x) > 1e-9 || math.Abs(y) > 1e-6 {
		t.Errorf("PixelXY(north-west corner, z1) = (%v, %v), want (0, 0)", x, y)
	}
}

func TestTileBoundsContainsPixel(t *testing.T) {
	p := GeoPoint{Lat: 28.6139, Lon: 77.2090}
	zoom := 12

	x, y, err := PixelXY(p, zoom, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tile := Tile{Z: zoom, X: int(x), Y: int(y)}
	if err := tile.Validate(); err != nil {
		t.Fatalf("tile %s invalid: %v", tile, err)
	}

	if b := TileBounds(tile); !b.Contains(p) {
		t.Errorf("TileBounds(%s) = %+v does not contain %v", tile, b, p)
	}
}

func TestTilesCovering(t *testing.T) {
	tiles, err := TilesCovering(Bounds{MinLat: -10, MinLon: -10, MaxLat: 10, MaxLon: 10}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tiles) != 4 {
		t.Fatalf("expected 4 tiles around the origin at z1, got %d: %v", len(tiles), tiles)
	}

	tiles, err = TilesCovering(Bounds{MinLat: 28.6, MinLon: 77.1, MaxLat: 28.61, MaxLon: 77.11}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tiles) != 1 || tiles[0] != (Tile{}) {
		t.Errorf("expected only tile 0/0/0, got %v", tiles)
	}
}

func TestTileValidate(t *testing.T) {
	bad := []Tile{{Z: -1}, {Z: 25}, {Z: 2, X: 4}, {Z: 3, Y: -1}}
	for _, tile := range bad {
		if err := tile.Validate(); err == nil {
			t.Errorf("Validate(%s) expected error", tile)
		}
	}
	if err := (Tile{Z: 3, X: 7, Y: 7}).Validate(); err != nil {
		t.Errorf("Validate(3/7/7) unexpected error: %v", err)
	}
}

func TestPolygonFeatureClosesRing(t *testing.T) {
	ring := []GeoPoint{{0, 0}, {0, 1}, {1, 1}}
	f := PolygonFeature(ring, nil)

	coords, ok := f.Geometry.Coordinates.([][][]float64)
	if !ok {
		t.Fatalf("unexpected coordinates type %T", f.Geometry.Coordinates)
	}
	if len(coords) != 1 || len(coords[0]) != 4 {
		t.Fatalf("expected one ring of 4 positions, got %v", coords)
	}
	first, last := coords[0][0], coords[0][3]
	if first[0] != last[0] || first[1] != last[1] {
		t.Errorf("ring not closed: first %v, last %v", first, last)
	}
}
