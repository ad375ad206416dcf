// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/woozymasta/rflink/internal/elevation"
	"github.com/woozymasta/rflink/internal/fresnel"
	"github.com/woozymasta/rflink/internal/geo"
	"github.com/woozymasta/rflink/internal/registry"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Towers    []Tower   `yaml:"towers,omitempty"`
	Links     []Link    `yaml:"links,omitempty"`
	Elevation Elevation `yaml:"elevation"`
	Segments  int       `yaml:"segments,omitempty"`
	TileSize  int       `yaml:"tile_size,omitempty"`
}

// Tower seeds a tower into the registry at startup.
type Tower struct {
	Name         string  `yaml:"name"`
	Lat          float64 `yaml:"lat"`
	Lon          float64 `yaml:"lon"`
	FrequencyGHz float64 `yaml:"frequency,omitempty"`
}

// Link seeds a link between two towers referenced by name.
type Link struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// Elevation configures the optional background elevation lookup.
type Elevation struct {
	URL     string        `yaml:"url,omitempty"`
	Samples int           `yaml:"samples,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Enabled bool          `yaml:"enabled"`
}

// Load reads and parses the YAML configuration file from the specified path.
// Missing values are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Segments <= 0 {
		c.Segments = fresnel.DefaultSegments
	}
	if c.TileSize <= 0 {
		c.TileSize = geo.DefaultTileSize
	}
	if c.Elevation.URL == "" {
		c.Elevation.URL = elevation.DefaultURL
	}
	if c.Elevation.Samples <= 0 {
		c.Elevation.Samples = elevation.DefaultSamples
	}
	if c.Elevation.Timeout <= 0 {
		c.Elevation.Timeout = 10 * time.Second
	}
}

// Seed adds the configured towers and links to reg.
// Towers are added in file order, links reference towers by name.
func (c *Config) Seed(reg *registry.Registry) error {
	for _, t := range c.Towers {
		tower, err := reg.AddTower(t.Name, geo.GeoPoint{Lat: t.Lat, Lon: t.Lon}, t.FrequencyGHz)
		if err != nil {
			return fmt.Errorf("seed tower %q: %w", t.Name, err)
		}

		log.Debug().
			Int("id", tower.ID).
			Str("name", tower.Name).
			Float64("frequency_ghz", tower.FrequencyGHz).
			Msg("Tower seeded")
	}

	for _, l := range c.Links {
		a, err := reg.TowerByName(l.A)
		if err != nil {
			return fmt.Errorf("seed link %q-%q: %w", l.A, l.B, err)
		}
		b, err := reg.TowerByName(l.B)
		if err != nil {
			return fmt.Errorf("seed link %q-%q: %w", l.A, l.B, err)
		}

		link, err := reg.Link(a.ID, b.ID)
		if err != nil {
			return fmt.Errorf("seed link %q-%q: %w", l.A, l.B, err)
		}

		log.Debug().
			Int("id", link.ID).
			Str("a", a.Name).
			Str("b", b.Name).
			Msg("Link seeded")
	}

	return nil
}
