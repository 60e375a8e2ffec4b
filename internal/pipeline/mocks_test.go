package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/couchcryptid/surf-session-etl/internal/config"
	"github.com/couchcryptid/surf-session-etl/internal/domain"
	"github.com/couchcryptid/surf-session-etl/internal/observability"
)

// fakeStore is an in-memory rectangular grid with the same 1-based
// addressing as the sheet adapter.
type fakeStore struct {
	rows [][]string

	writeRangeCalls int
	appendCalls     int
}

func (s *fakeStore) ReadRange(_ context.Context, row, col, numRows, numCols int) ([][]string, error) {
	var out [][]string
	for r := row; r < row+numRows && r <= len(s.rows); r++ {
		stored := s.rows[r-1]
		cells := make([]string, numCols)
		for c := 0; c < numCols; c++ {
			if col-1+c < len(stored) {
				cells[c] = stored[col-1+c]
			}
		}
		out = append(out, cells)
	}
	return out, nil
}

func (s *fakeStore) WriteRange(_ context.Context, row, col int, values [][]string) error {
	s.writeRangeCalls++
	for i, v := range values {
		r := row - 1 + i
		for len(s.rows) <= r {
			s.rows = append(s.rows, nil)
		}
		for j, cell := range v {
			c := col - 1 + j
			for len(s.rows[r]) <= c {
				s.rows[r] = append(s.rows[r], "")
			}
			s.rows[r][c] = cell
		}
	}
	return nil
}

func (s *fakeStore) AppendRows(_ context.Context, values [][]string) error {
	s.appendCalls++
	for _, v := range values {
		s.rows = append(s.rows, append([]string(nil), v...))
	}
	return nil
}

func (s *fakeStore) LastRow(_ context.Context) (int, error) { return len(s.rows), nil }

func (s *fakeStore) LastColumn(_ context.Context) (int, error) {
	last := 0
	for _, r := range s.rows {
		if len(r) > last {
			last = len(r)
		}
	}
	return last, nil
}

func (s *fakeStore) Clear(_ context.Context) error {
	s.rows = nil
	return nil
}

type fakeSource struct {
	activities []domain.Activity
	details    map[int64]domain.ActivityDetail

	listCalls   int
	detailCalls int
	listErr     error
	detailErr   error
}

func (f *fakeSource) ListActivities(_ context.Context, _ int64) ([]domain.Activity, error) {
	f.listCalls++
	return f.activities, f.listErr
}

func (f *fakeSource) ActivityDetail(_ context.Context, id int64) (domain.ActivityDetail, error) {
	f.detailCalls++
	if f.detailErr != nil {
		return domain.ActivityDetail{}, f.detailErr
	}
	return f.details[id], nil
}

type fakeGeocoder struct {
	components []domain.AddressComponent
	calls      int
	err        error
}

func (f *fakeGeocoder) ReverseGeocode(_ context.Context, _, _ float64) ([]domain.AddressComponent, error) {
	f.calls++
	return f.components, f.err
}

type fakeWeather struct {
	feed  string
	calls int
	err   error
}

func (f *fakeWeather) HourlyObservations(_ context.Context, _ domain.Window, _ int) (string, error) {
	f.calls++
	return f.feed, f.err
}

type fakeMarker struct {
	calls int
}

func (f *fakeMarker) ApplyMarkup(_ context.Context) error {
	f.calls++
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Mode:             config.ModeTest,
		SheetName:        "Sessions[T]",
		ActivityType:     "Windsurf",
		UpdateSessions:   true,
		EnrichLocation:   true,
		EnrichContent:    false,
		EnrichWeather:    true,
		SupportedCountry: "Netherlands",
	}
}

func testPipeline(store domain.Store, source domain.ActivitySource, geocoder domain.Geocoder, weather domain.WeatherSource, cfg *config.Config) *Pipeline {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(source, geocoder, weather, store, nil, cfg, logger, observability.NewMetricsForTesting())
}
