package geo

import (
	"fmt"
	"math"
)

// DefaultTileSize is the pixel width of an XYZ map tile.
const DefaultTileSize = 256

// Tile addresses a single XYZ (slippy map) tile.
type Tile struct {
	Z, X, Y int
}

// String returns the tile as "z/x/y".
func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Validate checks the zoom level and that x, y are inside the 2^z grid.
func (t Tile) Validate() error {
	if t.Z < 0 || t.Z > 24 {
		return fmt.Errorf("%w: zoom %d outside [0, 24]", ErrInvalidInput, t.Z)
	}

	n := 1 << t.Z
	if t.X < 0 || t.X >= n || t.Y < 0 || t.Y >= n {
		return fmt.Errorf("%w: tile %s outside the %dx%d grid", ErrInvalidInput, t, n, n)
	}

	return nil
}

// PixelXY returns the global pixel position of p at the zoom level.
// Latitude is clamped to MaxMercatorLat so the world stays square.
func PixelXY(p GeoPoint, zoom, tileSize int) (float64, float64, error) {
	clamped := p
	clamped.Lat = math.Max(-MaxMercatorLat, math.Min(MaxMercatorLat, p.Lat))

	q, err := Project(clamped)
	if err != nil {
		return 0, 0, err
	}

	world := float64(tileSize) * float64(uint64(1)<<uint(zoom))
	half := math.Pi * MercatorRadius

	px := (q.X/half + 1) / 2 * world
	py := (1 - q.Y/half) / 2 * world

	return px, py, nil
}

// TileBounds returns the geographic box covered by the tile.
func TileBounds(t Tile) Bounds {
	n := float64(uint64(1) << uint(t.Z))
	half := math.Pi * MercatorRadius

	// planar edges are finite, Unproject cannot fail here
	nw, _ := Unproject(PlanarPoint{
		X: (float64(t.X)/n*2 - 1) * half,
		Y: (1 - float64(t.Y)/n*2) * half,
	})
	se, _ := Unproject(PlanarPoint{
		X: (float64(t.X+1)/n*2 - 1) * half,
		Y: (1 - float64(t.Y+1)/n*2) * half,
	})

	return Bounds{MinLat: se.Lat, MinLon: nw.Lon, MaxLat: nw.Lat, MaxLon: se.Lon}
}

// TilesCovering lists the tiles at zoom that intersect the box.
func TilesCovering(b Bounds, zoom int) ([]Tile, error) {
	if zoom < 0 || zoom > 24 {
		return nil, fmt.Errorf("%w: zoom %d outside [0, 24]", ErrInvalidInput, zoom)
	}

	x0, y0, err := PixelXY(GeoPoint{Lat: b.MaxLat, Lon: b.MinLon}, zoom, 1)
	if err != nil {
		return nil, err
	}
	x1, y1, err := PixelXY(GeoPoint{Lat: b.MinLat, Lon: b.MaxLon}, zoom, 1)
	if err != nil {
		return nil, err
	}

	maxIdx := (1 << zoom) - 1
	clamp := func(v float64) int {
		i := int(math.Floor(v))
		return max(0, min(maxIdx, i))
	}

	nx := max(0, clamp(x1)-clamp(x0)+1)
	ny := max(0, clamp(y1)-clamp(y0)+1)

	tiles := make([]Tile, 0, nx*ny)
	for x := clamp(x0); x <= clamp(x1); x++ {
		for y := clamp(y0); y <= clamp(y1); y++ {
			tiles = append(tiles, Tile{Z: zoom, X: x, Y: y})
		}
	}

	return tiles, nil
}
