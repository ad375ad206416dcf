// Package server handles HTTP requests and middleware.
package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/woozymasta/rflink/internal/fresnel"
	"github.com/woozymasta/rflink/internal/geo"
	"github.com/woozymasta/rflink/internal/registry"

	"github.com/rs/zerolog/log"
)

type towerRequest struct {
	Name         string   `json:"name"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	FrequencyGHz float64  `json:"frequency_ghz"`
}

type towerView struct {
	registry.Tower
	Stats registry.Stats `json:"stats"`
}

type linkRequest struct {
	A int `json:"a"`
	B int `json:"b"`
}

type linkView struct {
	registry.Link
	DistanceMeters float64 `json:"distance_m"`
	FrequencyGHz   float64 `json:"frequency_ghz"`
}

type fresnelRequest struct {
	A            geo.GeoPoint `json:"a"`
	B            geo.GeoPoint `json:"b"`
	FrequencyGHz float64      `json:"frequency_ghz"`
	Segments     int          `json:"segments"`
}

type pairRequest struct {
	A geo.GeoPoint `json:"a"`
	B geo.GeoPoint `json:"b"`
}

// HandleHealth provides a minimal liveness check endpoint.
func (s *ServerContext) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleTowersList serves all towers with their link statistics.
func (s *ServerContext) HandleTowersList(w http.ResponseWriter, r *http.Request) {
	towers := s.Registry.Towers()

	res := make([]towerView, 0, len(towers))
	for _, t := range towers {
		st, err := s.Registry.Stats(t.ID)
		if err != nil {
			// removed between the two calls
			continue
		}
		res = append(res, towerView{Tower: t, Stats: st})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// HandleTowerCreate places a new tower.
func (s *ServerContext) HandleTowerCreate(w http.ResponseWriter, r *http.Request) {
	var req towerRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	if req.Lat == nil || req.Lon == nil {
		writeError(w, r, http.StatusBadRequest, "lat and lon are required")
		return
	}

	t, err := s.Registry.AddTower(strings.TrimSpace(req.Name), geo.GeoPoint{Lat: *req.Lat, Lon: *req.Lon}, req.FrequencyGHz)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	log.Info().
		Int("id", t.ID).
		Str("name", t.Name).
		Float64("frequency_ghz", t.FrequencyGHz).
		Msg("Tower added")

	writeJSON(w, r, http.StatusCreated, towerView{Tower: t, Stats: registry.Stats{ConnectedFrequencies: []float64{}}})
}

// HandleTowerUpdate renames a tower or changes its frequency.
func (s *ServerContext) HandleTowerUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	var req towerRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	if req.Lat != nil || req.Lon != nil {
		writeError(w, r, http.StatusBadRequest, "tower location cannot be changed")
		return
	}

	t, err := s.Registry.UpdateTower(id, strings.TrimSpace(req.Name), req.FrequencyGHz)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	st, err := s.Registry.Stats(id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, towerView{Tower: t, Stats: st})
}

// HandleTowerDelete removes a tower together with its links.
func (s *ServerContext) HandleTowerDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	removed, err := s.Registry.RemoveTower(id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	for _, lid := range removed {
		s.Tasks.Drop(lid)
	}

	log.Info().Int("id", id).Ints("links_removed", removed).Msg("Tower removed")
	w.WriteHeader(http.StatusNoContent)
}

// HandleLinksList serves all links with their length and frequency.
func (s *ServerContext) HandleLinksList(w http.ResponseWriter, r *http.Request) {
	links := s.Registry.Links()

	res := make([]linkView, 0, len(links))
	for _, l := range links {
		v, err := s.linkView(l.ID)
		if err != nil {
			continue
		}
		res = append(res, v)
	}

	writeJSON(w, r, http.StatusOK, res)
}

// HandleLinkCreate links two towers sharing a frequency.
func (s *ServerContext) HandleLinkCreate(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	l, err := s.Registry.Link(req.A, req.B)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	v, err := s.linkView(l.ID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	log.Info().
		Int("id", l.ID).
		Int("a", l.A).
		Int("b", l.B).
		Float64("distance_m", v.DistanceMeters).
		Msg("Link created")

	writeJSON(w, r, http.StatusCreated, v)
}

// HandleLinkDelete removes a link.
func (s *ServerContext) HandleLinkDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	if err := s.Registry.RemoveLink(id); err != nil {
		writeFailure(w, r, err)
		return
	}
	s.Tasks.Drop(id)

	w.WriteHeader(http.StatusNoContent)
}

// HandleLinkFresnel serves the Fresnel zone of a registered link as JSON,
// or as a GeoJSON feature with ?format=geojson.
func (s *ServerContext) HandleLinkFresnel(w http.ResponseWriter, r *http.Request) {
	id, zone, ok := s.linkZone(w, r)
	if !ok {
		return
	}

	s.scheduleElevation(id)

	if r.URL.Query().Get("format") == "geojson" {
		w.Header().Set("Content-Type", "application/geo+json")
		fc := geo.NewFeatureCollection()
		fc.Features = append(fc.Features, zone.Feature())
		writeJSON(w, r, http.StatusOK, fc)
		return
	}

	writeJSON(w, r, http.StatusOK, zone)
}

// HandleLinkSVG serves the Fresnel zone of a registered link as an SVG overlay.
func (s *ServerContext) HandleLinkSVG(w http.ResponseWriter, r *http.Request) {
	_, zone, ok := s.linkZone(w, r)
	if !ok {
		return
	}

	width := 512
	if raw := r.URL.Query().Get("width"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 16 || n > 8192 {
			writeError(w, r, http.StatusBadRequest, "width must be an integer in [16, 8192]")
			return
		}
		width = n
	}

	data, err := renderSVG(zone, width)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	b := geo.BoundsOf(zone.Polygon)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Overlay-Bounds", strconv.FormatFloat(b.MinLat, 'f', -1, 64)+","+
		strconv.FormatFloat(b.MinLon, 'f', -1, 64)+","+
		strconv.FormatFloat(b.MaxLat, 'f', -1, 64)+","+
		strconv.FormatFloat(b.MaxLon, 'f', -1, 64))
	_, _ = w.Write(data)
}

// HandleLinkTile serves a WebP overlay tile: /tiles/{id}/{z}/{x}/{y}.webp
func (s *ServerContext) HandleLinkTile(w http.ResponseWriter, r *http.Request) {
	tile, err := parseTile(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	_, zone, ok := s.linkZone(w, r)
	if !ok {
		return
	}

	data, err := renderTile(zone, tile, s.Config.TileSize)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

// HandleFresnel computes a zone for an ad hoc pair of endpoints.
func (s *ServerContext) HandleFresnel(w http.ResponseWriter, r *http.Request) {
	var req fresnelRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	segments := req.Segments
	if segments == 0 {
		segments = s.Config.Segments
	}
	if segments < 3 || segments > fresnel.MaxSegments {
		writeError(w, r, http.StatusBadRequest, "segments must be an integer in [3, "+strconv.Itoa(fresnel.MaxSegments)+"]")
		return
	}

	zone, err := fresnel.Compute(req.A, req.B, req.FrequencyGHz, segments)
	s.Metrics.ObserveZone(zone.RadiusMeters, err)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, zone)
}

// HandleDistance returns the great-circle distance between two points.
func (s *ServerContext) HandleDistance(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	d, err := geo.Distance(req.A, req.B)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]float64{"distance_m": d})
}

// HandleProject converts a geographic point to Web Mercator meters.
func (s *ServerContext) HandleProject(w http.ResponseWriter, r *http.Request) {
	var p geo.GeoPoint
	if err := decodeBody(r, &p); err != nil {
		writeFailure(w, r, err)
		return
	}

	q, err := geo.Project(p)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, q)
}

// HandleUnproject converts Web Mercator meters to a geographic point.
func (s *ServerContext) HandleUnproject(w http.ResponseWriter, r *http.Request) {
	var q geo.PlanarPoint
	if err := decodeBody(r, &q); err != nil {
		writeFailure(w, r, err)
		return
	}

	p, err := geo.Unproject(q)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, p)
}

// HandleNetwork serves towers and links as a GeoJSON feature collection.
func (s *ServerContext) HandleNetwork(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/geo+json")
	writeJSON(w, r, http.StatusOK, s.Registry.FeatureCollection())
}

func (s *ServerContext) linkView(id int) (linkView, error) {
	l, a, b, err := s.Registry.LinkEnds(id)
	if err != nil {
		return linkView{}, err
	}

	d, err := geo.Distance(a.Location, b.Location)
	if err != nil {
		return linkView{}, err
	}

	return linkView{Link: l, DistanceMeters: d, FrequencyGHz: a.FrequencyGHz}, nil
}

// linkZone resolves {id} and computes its zone, writing the error response itself.
func (s *ServerContext) linkZone(w http.ResponseWriter, r *http.Request) (int, fresnel.Zone, bool) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return 0, fresnel.Zone{}, false
	}

	segments, err := querySegments(r, s.Config.Segments)
	if err != nil {
		writeFailure(w, r, err)
		return 0, fresnel.Zone{}, false
	}

	link, err := s.Registry.RadioLink(id)
	if err != nil {
		writeFailure(w, r, err)
		return 0, fresnel.Zone{}, false
	}

	zone, err := link.Compute(segments)
	s.Metrics.ObserveZone(zone.RadiusMeters, err)
	if err != nil {
		writeFailure(w, r, err)
		return 0, fresnel.Zone{}, false
	}

	return id, zone, true
}

// scheduleElevation starts a background profile lookup for the link.
// The response never waits for it.
func (s *ServerContext) scheduleElevation(id int) {
	if s.Fetcher == nil {
		return
	}

	link, err := s.Registry.RadioLink(id)
	if err != nil {
		return
	}

	task := s.Fetcher.Schedule(s.baseContext(), link.A, link.B)
	s.Tasks.Replace(id, task)
}

func parseTile(r *http.Request) (geo.Tile, error) {
	z, err := pathInt(r, "z")
	if err != nil {
		return geo.Tile{}, err
	}
	x, err := pathInt(r, "x")
	if err != nil {
		return geo.Tile{}, err
	}

	// y carries the extension: 123.webp
	yRaw := strings.TrimSuffix(r.PathValue("y"), ".webp")
	y, err := strconv.Atoi(yRaw)
	if err != nil {
		return geo.Tile{}, errInvalid("y must be an integer")
	}

	tile := geo.Tile{Z: z, X: x, Y: y}
	return tile, tile.Validate()
}
