package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature (Point, LineString, Polygon).
// Coordinates nest as []float64, [][]float64 or [][][]float64 respectively, [Lon, Lat] order.
type GeoJSONGeometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates interface{} `json:"coordinates" yaml:"coordinates"`
}

// NewFeatureCollection returns an empty collection ready for appending.
func NewFeatureCollection() GeoJSONFeatureCollection {
	return GeoJSONFeatureCollection{Type: "FeatureCollection", Features: []GeoJSONFeature{}}
}

// PointFeature builds a Point feature.
func PointFeature(p GeoPoint, props map[string]interface{}) GeoJSONFeature {
	return GeoJSONFeature{
		Type:       "Feature",
		Geometry:   GeoJSONGeometry{Type: "Point", Coordinates: p.CoordsToList()},
		Properties: props,
	}
}

// LineFeature builds a LineString feature.
func LineFeature(points []GeoPoint, props map[string]interface{}) GeoJSONFeature {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, p.CoordsToList())
	}

	return GeoJSONFeature{
		Type:       "Feature",
		Geometry:   GeoJSONGeometry{Type: "LineString", Coordinates: coords},
		Properties: props,
	}
}

// PolygonFeature builds a single-ring Polygon feature.
// The ring is closed by repeating the first vertex when it is not already.
func PolygonFeature(ring []GeoPoint, props map[string]interface{}) GeoJSONFeature {
	coords := make([][]float64, 0, len(ring)+1)
	for _, p := range ring {
		coords = append(coords, p.CoordsToList())
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		coords = append(coords, ring[0].CoordsToList())
	}

	return GeoJSONFeature{
		Type:       "Feature",
		Geometry:   GeoJSONGeometry{Type: "Polygon", Coordinates: [][][]float64{coords}},
		Properties: props,
	}
}
