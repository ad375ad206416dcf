package registry

import "github.com/woozymasta/rflink/internal/geo"

// FeatureCollection exports towers as points and links as lines.
// Tower features come first, both groups ordered by id.
func (r *Registry) FeatureCollection() geo.GeoJSONFeatureCollection {
	fc := geo.NewFeatureCollection()

	for _, t := range r.Towers() {
		st, err := r.Stats(t.ID)
		if err != nil {
			continue
		}
		fc.Features = append(fc.Features, geo.PointFeature(t.Location, map[string]interface{}{
			"kind":          "tower",
			"id":            t.ID,
			"name":          t.Name,
			"frequency_ghz": t.FrequencyGHz,
			"link_count":    st.LinkCount,
		}))
	}

	for _, l := range r.Links() {
		_, a, b, err := r.LinkEnds(l.ID)
		if err != nil {
			continue
		}
		d, err := geo.Distance(a.Location, b.Location)
		if err != nil {
			continue
		}
		fc.Features = append(fc.Features, geo.LineFeature([]geo.GeoPoint{a.Location, b.Location}, map[string]interface{}{
			"kind":          "link",
			"id":            l.ID,
			"a":             a.ID,
			"b":             b.ID,
			"distance_m":    d,
			"frequency_ghz": a.FrequencyGHz,
		}))
	}

	return fc
}
