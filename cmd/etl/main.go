// Command etl runs one pass of the windsurf session pipeline: pull new
// activities from Strava into the session sheet, then enrich stored sessions
// with location, user generated content, and historical weather averages.
//
// The process is meant to run from a scheduler (cron, Cloud Scheduler). It
// exits non-zero on a fatal error so the scheduler can alert.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/surf-session-etl/internal/adapter/googlemaps"
	"github.com/couchcryptid/surf-session-etl/internal/adapter/httpadapter"
	"github.com/couchcryptid/surf-session-etl/internal/adapter/knmi"
	"github.com/couchcryptid/surf-session-etl/internal/adapter/sheets"
	"github.com/couchcryptid/surf-session-etl/internal/adapter/strava"
	"github.com/couchcryptid/surf-session-etl/internal/cache"
	"github.com/couchcryptid/surf-session-etl/internal/config"
	"github.com/couchcryptid/surf-session-etl/internal/domain"
	"github.com/couchcryptid/surf-session-etl/internal/observability"
	"github.com/couchcryptid/surf-session-etl/internal/pipeline"
)

func main() {
	mode := flag.String("mode", config.ModeProd, "environment profile: test or prod")
	flag.Parse()

	// Optional; a missing .env file is the normal case in deployment.
	_ = godotenv.Load()

	cfg, err := config.Load(*mode)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg).With("run_id", uuid.NewString())
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sheets.NewStore(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to open session sheet", "error", err)
		os.Exit(1)
	}

	var source domain.ActivitySource = strava.NewClient(cfg, logger, metrics)
	if cfg.EnrichContent {
		source = strava.NewCachedSource(source, cache.NewMemory(nil), cfg.ContentTTL, metrics)
	}

	var geocoder domain.Geocoder
	if cfg.EnrichLocation {
		client := googlemaps.NewClient(cfg.MapsAPIKey, cfg.MapsTimeout, logger, metrics)
		geocoder = googlemaps.NewCachedGeocoder(client, cache.NewMemory(nil), cfg.GeocodeTTL, metrics)
	}

	var weather domain.WeatherSource
	if cfg.EnrichWeather {
		client := knmi.NewClient(cfg.KNMITimeout, logger, metrics)
		weather = knmi.NewCachedSource(client, cache.NewMemory(nil), cfg.WeatherTTL, metrics)
	}

	var marker pipeline.Marker
	if cfg.MarkupData {
		marker = store
	}

	p := pipeline.New(source, geocoder, weather, store, marker, cfg, logger, metrics)

	// The listener is optional; a scheduled one-shot run usually has nothing
	// to scrape, but long enrichment passes benefit from live metrics.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("run failed", "error", runErr)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
}
