package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/couchcryptid/surf-session-etl/internal/domain"
)

// enrich reads every stored session, runs the enabled enrichment stages over
// them in memory, and writes the block back in one bulk write when anything
// changed. Per-row failures are collected and logged; they leave the row
// untouched so the next run picks it up again. Only an authorization failure
// aborts.
func (p *Pipeline) enrich(ctx context.Context) error {
	if !p.cfg.UpdateSessions {
		p.logger.Warn("session enrichment disabled in config")
		return nil
	}

	lastRow, err := p.store.LastRow(ctx)
	if err != nil {
		return err
	}
	if lastRow < 2 {
		p.logger.Info("no sessions to enrich")
		return nil
	}

	rows, err := p.store.ReadRange(ctx, 2, 1, lastRow-1, domain.NumColumns)
	if err != nil {
		return err
	}

	sessions := make([]domain.Session, len(rows))
	for i, row := range rows {
		sessions[i] = domain.SessionFromRow(row)
	}

	dirty := false
	var rowErrs *multierror.Error
	for i := range sessions {
		rowNum := i + 2

		if p.cfg.EnrichLocation {
			changed, err := p.enrichLocation(ctx, &sessions[i], rowNum)
			if err != nil {
				if domain.IsAuthorizationError(err) {
					return err
				}
				rowErrs = multierror.Append(rowErrs, fmt.Errorf("row %d location: %w", rowNum, err))
			}
			dirty = dirty || changed
		}

		if p.cfg.EnrichContent {
			changed, err := p.enrichContent(ctx, &sessions[i], rowNum)
			if err != nil {
				if domain.IsAuthorizationError(err) {
					return err
				}
				rowErrs = multierror.Append(rowErrs, fmt.Errorf("row %d content: %w", rowNum, err))
			}
			dirty = dirty || changed
		}

		if p.cfg.EnrichWeather {
			changed, err := p.enrichWeather(ctx, &sessions[i], rowNum)
			if err != nil {
				rowErrs = multierror.Append(rowErrs, fmt.Errorf("row %d weather: %w", rowNum, err))
			}
			dirty = dirty || changed
		}
	}

	if err := rowErrs.ErrorOrNil(); err != nil {
		p.logger.Warn("some sessions were not enriched", "errors", err, "count", len(rowErrs.Errors))
	}

	if !dirty {
		p.logger.Info("no session changed, skipping write")
		return nil
	}

	updated := make([][]string, len(sessions))
	for i := range sessions {
		updated[i] = sessions[i].Row()
	}
	return p.store.WriteRange(ctx, 2, 1, updated)
}

// enrichLocation fills missing city and country cells from the session's
// start coordinates.
func (p *Pipeline) enrichLocation(ctx context.Context, s *domain.Session, rowNum int) (bool, error) {
	if !s.NeedsLocation() {
		return false, nil
	}
	if !s.HasCoordinates() {
		p.logger.Warn("skipping location, coordinates missing", "row", rowNum, "strava_id", s.StravaID)
		p.metrics.EnrichmentSkips.WithLabelValues("no_coordinates").Inc()
		return false, nil
	}

	components, err := p.geocoder.ReverseGeocode(ctx, *s.Lat, *s.Lon)
	if err != nil {
		return false, err
	}
	if len(components) == 0 {
		p.logger.Warn("no address found for coordinates", "row", rowNum, "lat", *s.Lat, "lon", *s.Lon)
		return false, nil
	}

	s.City = domain.ExtractComponent(components, "locality")
	s.Country = domain.ExtractComponent(components, "country")
	p.metrics.SessionsEnriched.WithLabelValues("location").Inc()
	p.logger.Debug("resolved location", "row", rowNum, "city", s.City, "country", s.Country)
	return true, nil
}

// enrichContent refreshes name, companion count, and description from the
// activity detail endpoint. It re-fetches on every run so edits made in the
// upstream app propagate to the sheet.
func (p *Pipeline) enrichContent(ctx context.Context, s *domain.Session, rowNum int) (bool, error) {
	detail, err := p.source.ActivityDetail(ctx, s.StravaID)
	if err != nil {
		return false, err
	}

	s.Name = detail.Name
	friends := detail.AthleteCount
	s.Friends = &friends
	s.Description = detail.Description
	p.metrics.SessionsEnriched.WithLabelValues("content").Inc()
	p.logger.Debug("refreshed content", "row", rowNum, "strava_id", s.StravaID)
	return true, nil
}

// enrichWeather fills the wind and temperature averages for sessions at a
// known spot. The empty average-wind cell is the idempotence guard; once a
// session carries weather data the stage never recomputes it.
func (p *Pipeline) enrichWeather(ctx context.Context, s *domain.Session, rowNum int) (bool, error) {
	if !s.NeedsWeather() {
		p.metrics.EnrichmentSkips.WithLabelValues("already_enriched").Inc()
		return false, nil
	}
	if s.Country != p.cfg.SupportedCountry {
		p.logger.Debug("skipping weather, unsupported country", "row", rowNum, "country", s.Country)
		p.metrics.EnrichmentSkips.WithLabelValues("wrong_country").Inc()
		return false, nil
	}

	spot, ok := domain.LookupSpot(p.spots, s.City)
	if !ok {
		p.logger.Info("skipping weather, unknown spot", "row", rowNum, "city", s.City)
		p.metrics.EnrichmentSkips.WithLabelValues("unknown_spot").Inc()
		return false, nil
	}
	if spot.StationID == nil {
		p.logger.Info("skipping weather, spot has no station", "row", rowNum, "city", s.City)
		p.metrics.EnrichmentSkips.WithLabelValues("no_station").Inc()
		return false, nil
	}

	window, err := domain.ObservationWindow(s.StartDate, s.DurationSec)
	if err != nil {
		return false, err
	}

	feed, err := p.weather.HourlyObservations(ctx, window, *spot.StationID)
	if err != nil {
		return false, err
	}

	obs, err := domain.ParseObservations(feed)
	if err != nil {
		if errors.Is(err, domain.ErrNoObservations) {
			p.logger.Warn("no observations for window", "row", rowNum, "start", window.Start, "end", window.End, "station", *spot.StationID)
			p.metrics.EnrichmentSkips.WithLabelValues("no_observations").Inc()
			return false, nil
		}
		return false, err
	}

	stats := obs.Aggregate()
	if wind, ok := stats["FH"]; ok {
		avg := wind.Average
		s.AvgWind = &avg
	}
	if gusts, ok := stats["FX"]; ok {
		avg := gusts.Average
		s.AvgGusts = &avg
		// gusts.Max (the strongest gust) stays unpersisted; the column is
		// reserved for a later schema revision.
	}
	if dir, ok := stats["DD"]; ok {
		avg := dir.Average
		s.AvgWindDir = &avg
	}
	if temp, ok := stats["T"]; ok {
		avg := temp.Average
		s.AvgTemp = &avg
	}

	if s.AvgWind == nil {
		// Wind data missing from an otherwise non-empty feed; leave the
		// guard cell empty so the next run retries.
		p.logger.Warn("feed carried no wind average", "row", rowNum, "station", *spot.StationID)
		p.metrics.EnrichmentSkips.WithLabelValues("no_observations").Inc()
		return false, nil
	}

	p.metrics.SessionsEnriched.WithLabelValues("weather").Inc()
	p.logger.Debug("enriched weather", "row", rowNum, "hours", obs.Hours(), "avg_wind", *s.AvgWind)
	return true, nil
}
