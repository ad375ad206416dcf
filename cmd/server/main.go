package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/rflink/internal/config"
	"github.com/woozymasta/rflink/internal/logger"
	"github.com/woozymasta/rflink/internal/metrics"
	"github.com/woozymasta/rflink/internal/registry"
	"github.com/woozymasta/rflink/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"    env:"CONFIG_FILE"    description:"Path to configuration file (optional)"`
	Addr       string `short:"a" long:"addr"      env:"LISTEN_ADDRESS" description:"Address to listen on"                  default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"      env:"LISTEN_PORT"    description:"Port to listen on"                     default:"8080"`
	Segments   int    `short:"s" long:"segments"  env:"SEGMENTS"       description:"Default Fresnel polygon vertex count"`
	Elevation  bool   `short:"e" long:"elevation" env:"ELEVATION"      description:"Enable background elevation lookups"`
	ElevURL    string `long:"elevation-url"       env:"ELEVATION_URL"  description:"Open-Elevation compatible lookup endpoint"`
	NoMetrics  bool   `long:"no-metrics"          env:"NO_METRICS"     description:"Disable the Prometheus /metrics endpoint"`
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

	// Setup Logging
	opts.Logger.Setup()
	if envErr != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}

	// Load Config
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		cfg, err = config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	// Flags override the file
	if opts.Segments > 0 {
		cfg.Segments = opts.Segments
	}
	if opts.Elevation {
		cfg.Elevation.Enabled = true
	}
	if opts.ElevURL != "" {
		cfg.Elevation.URL = opts.ElevURL
	}

	reg := registry.New()
	if err := cfg.Seed(reg); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed towers and links")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvCtx := server.NewServerContext(cfg, reg)
	srvCtx.BaseContext = ctx
	if !opts.NoMetrics {
		m, err := metrics.New(nil, func() (int, int) {
			return len(reg.Towers()), len(reg.Links())
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to register metrics")
		}
		srvCtx.Metrics = m
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	log.Info().
		Str("addr", listenAddr).
		Int("towers", len(reg.Towers())).
		Int("links", len(reg.Links())).
		Bool("elevation", cfg.Elevation.Enabled).
		Bool("metrics", srvCtx.Metrics != nil).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}

	log.Info().Msg("Web server stopped")
}
