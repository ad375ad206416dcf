// Package render draws Fresnel zone overlays as SVG, raster previews and
// WebP map tiles.
package render

import "image/color"

// Style holds overlay colors and the outline width in pixels.
type Style struct {
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
}

// DefaultStyle is a translucent red fill with a stronger red outline.
var DefaultStyle = Style{
	Fill:        color.NRGBA{R: 239, G: 68, B: 68, A: 31},
	Stroke:      color.NRGBA{R: 239, G: 68, B: 68, A: 153},
	StrokeWidth: 2,
}

func (s Style) withDefaults() Style {
	if s == (Style{}) {
		return DefaultStyle
	}
	if s.StrokeWidth < 0 {
		s.StrokeWidth = 0
	}
	return s
}

func cssColor(c color.NRGBA) string {
	return "rgba(" + itoa(int(c.R)) + "," + itoa(int(c.G)) + "," + itoa(int(c.B)) + "," + ftoa(float64(c.A)/255) + ")"
}
