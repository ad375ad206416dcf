package server

import (
	"fmt"
	"net/http"

	"github.com/woozymasta/rflink/internal/fresnel"
	"github.com/woozymasta/rflink/internal/geo"
	"github.com/woozymasta/rflink/internal/render"
)

// Handler registers every route on a new mux wrapped with RequestLogger
// and, when metrics are enabled, the request metrics middleware.
func (s *ServerContext) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.HandleHealth)

	mux.HandleFunc("GET /api/towers", s.HandleTowersList)
	mux.HandleFunc("POST /api/towers", s.HandleTowerCreate)
	mux.HandleFunc("PATCH /api/towers/{id}", s.HandleTowerUpdate)
	mux.HandleFunc("DELETE /api/towers/{id}", s.HandleTowerDelete)

	mux.HandleFunc("GET /api/links", s.HandleLinksList)
	mux.HandleFunc("POST /api/links", s.HandleLinkCreate)
	mux.HandleFunc("DELETE /api/links/{id}", s.HandleLinkDelete)
	mux.HandleFunc("GET /api/links/{id}/fresnel", s.HandleLinkFresnel)
	mux.HandleFunc("GET /api/links/{id}/fresnel.svg", s.HandleLinkSVG)

	mux.HandleFunc("POST /api/fresnel", s.HandleFresnel)
	mux.HandleFunc("POST /api/distance", s.HandleDistance)
	mux.HandleFunc("POST /api/project", s.HandleProject)
	mux.HandleFunc("POST /api/unproject", s.HandleUnproject)
	mux.HandleFunc("GET /api/network.geojson", s.HandleNetwork)

	mux.HandleFunc("GET /tiles/{id}/{z}/{x}/{y}", s.HandleLinkTile)

	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}

	return RequestLogger(s.instrument(mux))
}

func renderSVG(zone fresnel.Zone, width int) ([]byte, error) {
	return render.SVG(zone.Polygon, width, render.DefaultStyle)
}

func renderTile(zone fresnel.Zone, tile geo.Tile, size int) ([]byte, error) {
	return render.Tile(zone.Polygon, tile, size, render.DefaultStyle)
}

func errInvalid(msg string) error {
	return fmt.Errorf("%w: %s", geo.ErrInvalidInput, msg)
}
