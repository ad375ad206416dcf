// Package processor pre-renders link overlays and network exports to disk.
package processor

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/woozymasta/rflink/internal/fresnel"
	"github.com/woozymasta/rflink/internal/geo"
	"github.com/woozymasta/rflink/internal/registry"

	"github.com/rs/zerolog/log"
)

// ProcessNetwork writes every tower and link to <outDir>/network.geojson.
func ProcessNetwork(reg *registry.Registry, outDir string, force bool) error {
	destFile := filepath.Join(outDir, "network.geojson")

	if _, err := os.Stat(destFile); err == nil && !force {
		log.Debug().Str("path", destFile).Msg("Network file exists, skipping")
		return nil
	}

	fc := reg.FeatureCollection()
	log.Info().
		Int("features", len(fc.Features)).
		Str("path", destFile).
		Msg("Writing network GeoJSON")

	return saveGeoJSON(outDir, destFile, fc)
}

// ProcessZone writes the zone polygon of one link to <outDir>/<id>/zone.geojson.
func ProcessZone(id int, zone fresnel.Zone, outDir string, force bool) error {
	destDir := linkDir(outDir, id)
	destFile := filepath.Join(destDir, "zone.geojson")

	if _, err := os.Stat(destFile); err == nil && !force {
		log.Debug().Int("link", id).Msg("Zone file exists, skipping")
		return nil
	}

	fc := geo.NewFeatureCollection()
	fc.Features = append(fc.Features, zone.Feature())

	return saveGeoJSON(destDir, destFile, fc)
}

// saveGeoJSON marshals the feature collection and writes it to disk.
func saveGeoJSON(dir, path string, fc geo.GeoJSONFeatureCollection) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}
