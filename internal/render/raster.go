package render

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/woozymasta/rflink/internal/geo"
)

// TileQuality is the lossy WebP quality used for overlay tiles.
const TileQuality = 85

type pixel struct{ X, Y float64 }

// Rasterize draws the polygon onto a transparent size x size image covering
// one XYZ tile. Tiles the polygon does not touch stay fully transparent.
func Rasterize(polygon []geo.GeoPoint, tile geo.Tile, size int, style Style) (*image.RGBA, error) {
	if err := tile.Validate(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: tile size %d must be positive", geo.ErrInvalidInput, size)
	}
	style = style.withDefaults()

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	if len(polygon) < 3 {
		return dst, nil
	}

	originX := float64(tile.X * size)
	originY := float64(tile.Y * size)

	pts := make([]pixel, 0, len(polygon))
	for _, p := range polygon {
		x, y, err := geo.PixelXY(p, tile.Z, size)
		if err != nil {
			return nil, err
		}
		pts = append(pts, pixel{X: x - originX, Y: y - originY})
	}

	if !touches(pts, float64(size), style.StrokeWidth) {
		return dst, nil
	}

	drawPolygon(dst, pts, style)
	return dst, nil
}

// Tile rasterizes the polygon for one tile and encodes it as WebP.
func Tile(polygon []geo.GeoPoint, tile geo.Tile, size int, style Style) ([]byte, error) {
	img, err := Rasterize(polygon, tile, size, style)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: TileQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return buf.Bytes(), nil
}

// Preview draws the polygon fitted into a size x size image, north up.
// The shape is rendered at twice the size and scaled down for smoother edges.
func Preview(polygon []geo.GeoPoint, size int, style Style) (*image.RGBA, error) {
	if len(polygon) < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 vertices", geo.ErrInvalidInput)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: preview size %d must be positive", geo.ErrInvalidInput, size)
	}
	style = style.withDefaults()

	planar, minX, minY, maxX, maxY, err := projectAll(polygon)
	if err != nil {
		return nil, err
	}

	big := size * 2
	pad := 2 * (style.StrokeWidth + 1)
	inner := float64(big) - 2*pad
	span := math.Max(maxX-minX, maxY-minY)
	scale := 1.0
	if span > 0 && inner > 0 {
		scale = inner / span
	}
	offX := (float64(big) - (maxX-minX)*scale) / 2
	offY := (float64(big) - (maxY-minY)*scale) / 2

	pts := make([]pixel, 0, len(planar))
	for _, q := range planar {
		pts = append(pts, pixel{
			X: offX + (q.X-minX)*scale,
			Y: offY + (maxY-q.Y)*scale,
		})
	}

	hi := image.NewRGBA(image.Rect(0, 0, big, big))
	wide := style
	wide.StrokeWidth *= 2
	drawPolygon(hi, pts, wide)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), hi, hi.Bounds(), xdraw.Src, nil)

	return dst, nil
}

// drawPolygon fills the ring and strokes every edge, closing edge included.
func drawPolygon(dst *image.RGBA, pts []pixel, style Style) {
	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())

	r.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(style.Fill), image.Point{})

	if style.StrokeWidth <= 0 || style.Stroke.A == 0 {
		return
	}

	r.Reset(b.Dx(), b.Dy())
	half := style.StrokeWidth / 2
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		dx, dy := q.X-p.X, q.Y-p.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half

		// one quad per edge, all with the same winding
		r.MoveTo(float32(p.X+nx), float32(p.Y+ny))
		r.LineTo(float32(q.X+nx), float32(q.Y+ny))
		r.LineTo(float32(q.X-nx), float32(q.Y-ny))
		r.LineTo(float32(p.X-nx), float32(p.Y-ny))
		r.ClosePath()
	}
	r.Draw(dst, b, image.NewUniform(style.Stroke), image.Point{})
}

// touches reports whether the polygon's box, grown by the stroke, overlaps [0, size).
func touches(pts []pixel, size, stroke float64) bool {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	return maxX+stroke >= 0 && minX-stroke < size && maxY+stroke >= 0 && minY-stroke < size
}
