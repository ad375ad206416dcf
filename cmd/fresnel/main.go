package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/woozymasta/rflink/internal/fresnel"
	"github.com/woozymasta/rflink/internal/geo"
	"github.com/woozymasta/rflink/internal/logger"
	"github.com/woozymasta/rflink/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ALat      float64 `long:"a-lat"        description:"Latitude of endpoint A"  required:"true"`
	ALon      float64 `long:"a-lon"        description:"Longitude of endpoint A" required:"true"`
	BLat      float64 `long:"b-lat"        description:"Latitude of endpoint B"  required:"true"`
	BLon      float64 `long:"b-lon"        description:"Longitude of endpoint B" required:"true"`
	Frequency float64 `short:"F" long:"frequency" description:"Link frequency in GHz" default:"5"`
	Segments  int     `short:"s" long:"segments"  description:"Polygon vertex count"  default:"120"`
	Output    string  `short:"o" long:"out"       description:"Output file path. Writes to stdout if empty"`
	Format    string  `short:"f" long:"format"    description:"Output format" choice:"json" choice:"yaml" choice:"geojson" choice:"svg" default:"json"`
	Width     int     `short:"w" long:"width"     description:"SVG width in pixels" default:"512"`
	Minify    bool    `short:"m" long:"minify"    description:"Minify JSON output"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	a := geo.GeoPoint{Lat: opts.ALat, Lon: opts.ALon}
	b := geo.GeoPoint{Lat: opts.BLat, Lon: opts.BLon}

	zone, err := fresnel.Compute(a, b, opts.Frequency, opts.Segments)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to compute Fresnel zone")
	}

	log.Debug().
		Float64("distance_m", zone.DistanceMeters).
		Float64("radius_m", zone.RadiusMeters).
		Int("segments", zone.Segments).
		Msg("Fresnel zone computed")

	outputData, err := encode(zone, opts)
	if err != nil {
		log.Fatal().Err(err).Str("format", opts.Format).Msg("Failed to encode output")
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output file")
		}
		log.Info().Str("path", opts.Output).Str("format", opts.Format).Msg("Fresnel zone written")
		return
	}

	fmt.Println(string(outputData))
}

func encode(zone fresnel.Zone, opts Options) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch opts.Format {
	case "yaml":
		return yaml.Marshal(zone)
	case "svg":
		return render.SVG(zone.Polygon, opts.Width, render.DefaultStyle)
	case "geojson":
		fc := geo.NewFeatureCollection()
		fc.Features = append(fc.Features, zone.Feature())
		data, err = json.MarshalIndent(fc, "", "  ")
	default:
		data, err = json.MarshalIndent(zone, "", "  ")
	}
	if err != nil || !opts.Minify {
		return data, err
	}

	m := minify.New()
	m.AddFunc("application/json", mjson.Minify)
	return m.Bytes("application/json", data)
}
