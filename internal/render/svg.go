package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/woozymasta/rflink/internal/geo"
)

const svgPadding = 4.0

var minifier = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("image/svg+xml", svg.Minify)
	return m
}

// SVG draws the polygon as a standalone minified SVG document of the given
// pixel width. The shape is drawn in Web Mercator space with north up, so it
// overlays a web map after positioning it on BoundsOf(polygon).
func SVG(polygon []geo.GeoPoint, width int, style Style) ([]byte, error) {
	if len(polygon) < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 vertices", geo.ErrInvalidInput)
	}
	if width <= 0 {
		return nil, fmt.Errorf("%w: width %d must be positive", geo.ErrInvalidInput, width)
	}
	style = style.withDefaults()

	pts, minX, minY, maxX, maxY, err := projectAll(polygon)
	if err != nil {
		return nil, err
	}

	spanX, spanY := maxX-minX, maxY-minY
	span := math.Max(spanX, spanY)
	inner := float64(width) - 2*svgPadding
	scale := 1.0
	if span > 0 && inner > 0 {
		scale = inner / span
	}
	height := math.Ceil(spanY*scale + 2*svgPadding)
	w := math.Ceil(spanX*scale + 2*svgPadding)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		ftoa(w), ftoa(height), ftoa(w), ftoa(height))
	buf.WriteString(`<polygon points="`)
	for i, q := range pts {
		if i > 0 {
			buf.WriteByte(' ')
		}
		x := svgPadding + (q.X-minX)*scale
		y := svgPadding + (maxY-q.Y)*scale
		buf.WriteString(ftoa(x))
		buf.WriteByte(',')
		buf.WriteString(ftoa(y))
	}
	fmt.Fprintf(&buf, `" style="fill:%s;stroke:%s;stroke-width:%s"/></svg>`,
		cssColor(style.Fill), cssColor(style.Stroke), ftoa(style.StrokeWidth))

	return minifier.Bytes("image/svg+xml", buf.Bytes())
}

func projectAll(polygon []geo.GeoPoint) ([]geo.PlanarPoint, float64, float64, float64, float64, error) {
	pts := make([]geo.PlanarPoint, 0, len(polygon))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, p := range polygon {
		q, err := geo.Project(p)
		if err != nil {
			return nil, 0, 0, 0, 0, err
		}
		pts = append(pts, q)
		minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
		minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
	}

	return pts, minX, minY, maxX, maxY, nil
}

// ftoa formats with at most two decimals.
func ftoa(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
