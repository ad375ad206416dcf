package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/woozymasta/rflink/internal/fresnel"
	"github.com/woozymasta/rflink/internal/geo"
	"github.com/woozymasta/rflink/internal/render"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
)

// PreviewSize is the edge length of preview.webp in pixels.
const PreviewSize = 256

// Options controls a tile pre-render run.
type Options struct {
	Style       render.Style
	OutDir      string
	MinZoom     int
	MaxZoom     int
	TileSize    int
	Concurrency int
	Force       bool
}

type job struct {
	BaseDir string
	Tile    geo.Tile
}

type result struct {
	Err     error
	Tile    geo.Tile
	Written bool
}

// ProcessTiles renders the overlay pyramid of one link into
// <OutDir>/<id>/<z>/<x>/<y>.webp and a preview image next to it.
// It returns the number of tiles written.
func ProcessTiles(id int, zone fresnel.Zone, opts Options) (int, error) {
	if opts.MinZoom < 0 || opts.MaxZoom > 24 || opts.MinZoom > opts.MaxZoom {
		return 0, fmt.Errorf("%w: zoom range [%d, %d]", geo.ErrInvalidInput, opts.MinZoom, opts.MaxZoom)
	}
	if opts.TileSize <= 0 {
		opts.TileSize = geo.DefaultTileSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	baseDir := linkDir(opts.OutDir, id)
	bounds := geo.BoundsOf(zone.Polygon)

	if err := writePreview(baseDir, zone, opts); err != nil {
		return 0, err
	}

	written := 0
	for z := opts.MinZoom; z <= opts.MaxZoom; z++ {
		tiles, err := geo.TilesCovering(bounds, z)
		if err != nil {
			return written, err
		}

		log.Debug().
			Int("link", id).
			Int("zoom", z).
			Int("count", len(tiles)).
			Msg("Processing zoom level")

		n, err := processBatch(zone, tiles, baseDir, opts)
		written += n
		if err != nil {
			return written, err
		}
	}

	log.Info().
		Int("link", id).
		Int("tiles", written).
		Str("dir", baseDir).
		Msg("Link tiles rendered")

	return written, nil
}

func processBatch(zone fresnel.Zone, tiles []geo.Tile, baseDir string, opts Options) (int, error) {
	jobs := make(chan job, len(tiles))
	results := make(chan result, len(tiles))

	go func() {
		for _, t := range tiles {
			jobs <- job{Tile: t, BaseDir: baseDir}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				ok, err := renderAndSave(zone, j, opts)
				if err != nil {
					log.Error().Err(err).Str("tile", j.Tile.String()).Msg("Failed to render tile")
				}
				results <- result{Tile: j.Tile, Written: ok, Err: err}
			}
		}()
	}
	wg.Wait()
	close(results)

	var (
		written  int
		firstErr error
	)
	for res := range results {
		if res.Written {
			written++
		}
		if res.Err != nil && firstErr == nil {
			firstErr = res.Err
		}
	}

	return written, firstErr
}

func renderAndSave(zone fresnel.Zone, j job, opts Options) (bool, error) {
	outPath := tilePath(j.BaseDir, j.Tile)

	// Check existence if not forcing overwrite
	if !opts.Force {
		if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
			return false, nil
		}
	}

	data, err := render.Tile(zone.Polygon, j.Tile, opts.TileSize, opts.Style)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return false, err
	}

	return true, nil
}

func writePreview(baseDir string, zone fresnel.Zone, opts Options) error {
	outPath := filepath.Join(baseDir, "preview.webp")
	if !opts.Force {
		if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
			return nil
		}
	}

	img, err := render.Preview(zone.Polygon, PreviewSize, opts.Style)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return webp.Encode(f, img, &webp.Options{Lossless: true})
}

func linkDir(outDir string, id int) string {
	return filepath.Join(outDir, strconv.Itoa(id))
}

func tilePath(baseDir string, t geo.Tile) string {
	return filepath.Join(
		baseDir,
		strconv.Itoa(t.Z),
		strconv.Itoa(t.X),
		strconv.Itoa(t.Y)+".webp",
	)
}
