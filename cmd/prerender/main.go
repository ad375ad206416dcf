package main

import (
	"os"

	"github.com/woozymasta/rflink/internal/config"
	"github.com/woozymasta/rflink/internal/logger"
	"github.com/woozymasta/rflink/internal/processor"
	"github.com/woozymasta/rflink/internal/registry"
	"github.com/woozymasta/rflink/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"       env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	OutDir      string `short:"o" long:"out"          env:"OUT_DIR"     description:"Output directory"           default:"tiles"`
	Limit       []int  `short:"l" long:"limit"        env:"LIMIT_LINKS" description:"Limit processing to specific link ids"`
	Concurrency int    `short:"p" long:"concurrency"  env:"CONCURRENCY" description:"Concurrency"                default:"8"`
	MinZoom     int    `long:"min-zoom"               env:"MIN_ZOOM"    description:"First zoom level"           default:"10"`
	MaxZoom     int    `short:"z" long:"max-zoom"     env:"MAX_ZOOM"    description:"Last zoom level"            default:"16"`
	TilesOnly   bool   `short:"t" long:"tiles-only"   description:"Render tiles only"`
	GeoJSONOnly bool   `short:"g" long:"geojson-only" description:"Write GeoJSON only"`
	Force       bool   `short:"f" long:"force"        description:"Force overwrite of existing files"`
}

func main() {
	// .env only fills variables that are not already set
	envErr := godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()
	if envErr != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	reg := registry.New()
	if err := cfg.Seed(reg); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed towers and links")
	}

	processTiles := true
	processGeo := true
	if opts.TilesOnly && !opts.GeoJSONOnly {
		processGeo = false
	} else if opts.GeoJSONOnly && !opts.TilesOnly {
		processTiles = false
	}

	// Filter links if limit is set
	links := reg.Links()
	if len(opts.Limit) > 0 {
		links = make([]registry.Link, 0, len(opts.Limit))
		seen := make(map[int]bool)

		for _, id := range opts.Limit {
			if seen[id] {
				continue
			}
			seen[id] = true

			l, _, _, err := reg.LinkEnds(id)
			if err != nil {
				log.Error().Int("link", id).Msg("Link specified in --limit not found in configuration")
				continue
			}
			links = append(links, l)
		}
	}

	log.Info().
		Int("links_total", len(reg.Links())).
		Int("links_queued", len(links)).
		Str("out", opts.OutDir).
		Msg("Starting pre-render")

	if processGeo {
		if err := processor.ProcessNetwork(reg, opts.OutDir, opts.Force); err != nil {
			log.Error().Err(err).Msg("Failed to write network")
		}
	}

	failed := 0
	for _, l := range links {
		link, err := reg.RadioLink(l.ID)
		if err != nil {
			log.Error().Err(err).Int("link", l.ID).Msg("Failed to resolve link")
			failed++
			continue
		}

		zone, err := link.Compute(cfg.Segments)
		if err != nil {
			log.Error().Err(err).Int("link", l.ID).Msg("Failed to compute Fresnel zone")
			failed++
			continue
		}

		if processGeo {
			if err := processor.ProcessZone(l.ID, zone, opts.OutDir, opts.Force); err != nil {
				log.Error().Err(err).Int("link", l.ID).Msg("Failed to write zone")
				failed++
			}
		}

		if !processTiles {
			continue
		}

		if _, err := processor.ProcessTiles(l.ID, zone, processor.Options{
			Style:       render.DefaultStyle,
			OutDir:      opts.OutDir,
			MinZoom:     opts.MinZoom,
			MaxZoom:     opts.MaxZoom,
			TileSize:    cfg.TileSize,
			Concurrency: opts.Concurrency,
			Force:       opts.Force,
		}); err != nil {
			log.Error().Err(err).Int("link", l.ID).Msg("Failed to render tiles")
			failed++
		}
	}

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("Pre-render finished with errors")
	}

	log.Info().Msg("Pre-render finished successfully")
}
