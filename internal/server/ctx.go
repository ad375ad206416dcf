package server

import (
	"context"

	"github.com/woozymasta/rflink/internal/config"
	"github.com/woozymasta/rflink/internal/elevation"
	"github.com/woozymasta/rflink/internal/metrics"
	"github.com/woozymasta/rflink/internal/registry"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config   *config.Config
	Registry *registry.Registry
	Fetcher  *elevation.Fetcher // nil when elevation lookups are disabled
	Tasks    *elevation.Tasks
	Metrics  *metrics.Collector // nil disables /metrics

	// BaseContext bounds background work such as elevation lookups.
	// Cancelling it aborts every pending task. nil means context.Background.
	BaseContext context.Context
}

func (s *ServerContext) baseContext() context.Context {
	if s.BaseContext == nil {
		return context.Background()
	}
	return s.BaseContext
}

// NewServerContext wires the registry and, when enabled, the elevation fetcher.
func NewServerContext(cfg *config.Config, reg *registry.Registry) *ServerContext {
	s := &ServerContext{
		Config:   cfg,
		Registry: reg,
		Tasks:    elevation.NewTasks(),
	}

	if cfg.Elevation.Enabled {
		s.Fetcher = &elevation.Fetcher{
			Client:  elevation.NewClient(cfg.Elevation.URL, cfg.Elevation.Timeout),
			Samples: cfg.Elevation.Samples,
			Timeout: cfg.Elevation.Timeout,
		}
		log.Info().
			Str("url", cfg.Elevation.URL).
			Int("samples", cfg.Elevation.Samples).
			Msg("Elevation lookups enabled")
	} else {
		log.Debug().Msg("Elevation lookups disabled")
	}

	log.Info().
		Int("towers", len(reg.Towers())).
		Int("links", len(reg.Links())).
		Int("segments", cfg.Segments).
		Msg("Server context initialized successfully")

	return s
}
