// Package pipeline orchestrates one ETL run: guard the sheet header, ingest
// new activities, enrich stored sessions, then optionally reformat the
// sheet. Stages run sequentially; per-row problems are logged and retried on
// the next run, only an authorization failure aborts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/surf-session-etl/internal/config"
	"github.com/couchcryptid/surf-session-etl/internal/domain"
	"github.com/couchcryptid/surf-session-etl/internal/observability"
)

// Marker applies presentation formatting to the sheet after a run.
type Marker interface {
	ApplyMarkup(ctx context.Context) error
}

// Pipeline wires the activity source, enrichment services, and the tabular
// store into a single run.
type Pipeline struct {
	source   domain.ActivitySource
	geocoder domain.Geocoder
	weather  domain.WeatherSource
	store    domain.Store
	marker   Marker
	spots    []domain.Spot

	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Pipeline. geocoder, weather, and marker may be nil when the
// corresponding stage is disabled in config.
func New(source domain.ActivitySource, geocoder domain.Geocoder, weather domain.WeatherSource, store domain.Store, marker Marker, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:   source,
		geocoder: geocoder,
		weather:  weather,
		store:    store,
		marker:   marker,
		spots:    domain.DefaultSpots,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once a run has completed at least one stage.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no pipeline stage has completed yet")
	}
	return nil
}

// Run executes one full pass. Rows written by an earlier stage are retained
// even when a later stage fails.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.logger.Info("run started", "mode", p.cfg.Mode, "sheet", p.cfg.SheetName)
	p.metrics.RunActive.Set(1)
	defer p.metrics.RunActive.Set(0)
	defer func() {
		p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	if err := p.ensureHeader(ctx); err != nil {
		return fmt.Errorf("ensure header: %w", err)
	}
	p.ready.Store(true)

	if err := p.ingest(ctx); err != nil {
		return fmt.Errorf("ingest activities: %w", err)
	}

	if err := p.enrich(ctx); err != nil {
		return fmt.Errorf("enrich sessions: %w", err)
	}

	if p.cfg.MarkupData && p.marker != nil {
		if err := p.marker.ApplyMarkup(ctx); err != nil {
			return fmt.Errorf("apply markup: %w", err)
		}
	}

	p.logger.Info("run finished", "duration", time.Since(start))
	return nil
}
