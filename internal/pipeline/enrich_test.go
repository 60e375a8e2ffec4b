package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/surf-session-etl/internal/domain"
)

const stationFeed = `# HOURLY WEATHER DATA FOR STATION 225
# STN,YYYYMMDD,   HH,   DD,   FH,   FF,   FX,    T
  225,20151115,   10,  220,   10,   12,   30,  150
  225,20151115,   11,  230,   20,   22,   40,  160
  225,20151115,   12,  240,   30,   32,   50,  170
`

func f64(v float64) *float64 { return &v }

func storedSession(s domain.Session) [][]string {
	return [][]string{domain.Header(), s.Row()}
}

func baseSession() domain.Session {
	return domain.Session{
		StartDate:     "2015-11-15T09:00:00Z",
		StravaID:      429516002,
		Name:          "Windsurf session",
		DistanceKm:    12.5,
		DurationSec:   14400,
		AvgSpeedKnots: 18.7,
		MaxSpeedKnots: 26.2,
		Lat:           f64(52.4612),
		Lon:           f64(4.5513),
		City:          "IJmuiden",
		Country:       "Netherlands",
	}
}

func TestEnrich_WeatherFillsAverages(t *testing.T) {
	store := &fakeStore{rows: storedSession(baseSession())}
	weather := &fakeWeather{feed: stationFeed}
	p := testPipeline(store, &fakeSource{}, &fakeGeocoder{}, weather, testConfig())

	require.NoError(t, p.enrich(context.Background()))

	assert.Equal(t, 1, weather.calls)
	assert.Equal(t, 1, store.writeRangeCalls)

	got := domain.SessionFromRow(store.rows[1])
	require.NotNil(t, got.AvgWind)
	assert.InDelta(t, 3.8877, *got.AvgWind, 0.0005)
	require.NotNil(t, got.AvgGusts)
	assert.InDelta(t, 7.7754, *got.AvgGusts, 0.0005)
	require.NotNil(t, got.AvgWindDir)
	assert.InDelta(t, 230, *got.AvgWindDir, 0.0001)
	require.NotNil(t, got.AvgTemp)
	assert.InDelta(t, 16, *got.AvgTemp, 0.0001)
	assert.Nil(t, got.StrongestGust, "reserved column stays empty")
}

func TestEnrich_WeatherIdempotent(t *testing.T) {
	s := baseSession()
	s.AvgWind = f64(3.9)
	store := &fakeStore{rows: storedSession(s)}
	weather := &fakeWeather{feed: stationFeed}
	p := testPipeline(store, &fakeSource{}, &fakeGeocoder{}, weather, testConfig())

	require.NoError(t, p.enrich(context.Background()))

	assert.Equal(t, 0, weather.calls, "enriched sessions are never refetched")
	assert.Equal(t, 0, store.writeRangeCalls)
}

func TestEnrich_WeatherGating(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Session)
	}{
		{"unknown spot", func(s *domain.Session) { s.City = "Amsterdam" }},
		{"spot without station", func(s *domain.Session) { s.City = "Horst" }},
		{"unsupported country", func(s *domain.Session) { s.Country = "Germany" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baseSession()
			tt.mutate(&s)
			store := &fakeStore{rows: storedSession(s)}
			weather := &fakeWeather{feed: stationFeed}
			p := testPipeline(store, &fakeSource{}, &fakeGeocoder{}, weather, testConfig())

			require.NoError(t, p.enrich(context.Background()))

			assert.Equal(t, 0, weather.calls)
			got := domain.SessionFromRow(store.rows[1])
			assert.Nil(t, got.AvgWind, "weather cells stay empty")
		})
	}
}

func TestEnrich_WeatherEmptyFeedRetriedNextRun(t *testing.T) {
	store := &fakeStore{rows: storedSession(baseSession())}
	weather := &fakeWeather{feed: "# geen gegevens\n"}
	p := testPipeline(store, &fakeSource{}, &fakeGeocoder{}, weather, testConfig())

	require.NoError(t, p.enrich(context.Background()))

	assert.Equal(t, 1, weather.calls)
	assert.Equal(t, 0, store.writeRangeCalls, "row left untouched for the next run")
}

func TestEnrich_WeatherErrorDoesNotAbort(t *testing.T) {
	s1 := baseSession()
	s2 := baseSession()
	s2.StravaID = 429516003
	store := &fakeStore{rows: [][]string{domain.Header(), s1.Row(), s2.Row()}}
	weather := &fakeWeather{err: errors.New("service unavailable")}
	p := testPipeline(store, &fakeSource{}, &fakeGeocoder{}, weather, testConfig())

	require.NoError(t, p.enrich(context.Background()))

	assert.Equal(t, 2, weather.calls, "every row is still attempted")
	assert.Equal(t, 0, store.writeRangeCalls)
}

func TestEnrich_LocationFillsCityAndCountry(t *testing.T) {
	s := baseSession()
	s.City = ""
	s.Country = ""
	store := &fakeStore{rows: storedSession(s)}
	geocoder := &fakeGeocoder{components: []domain.AddressComponent{
		{LongName: "Wijk aan Zee", Types: []string{"locality", "political"}},
		{LongName: "Netherlands", ShortName: "NL", Types: []string{"country", "political"}},
	}}
	cfg := testConfig()
	cfg.EnrichWeather = false
	p := testPipeline(store, &fakeSource{}, geocoder, &fakeWeather{}, cfg)

	require.NoError(t, p.enrich(context.Background()))

	assert.Equal(t, 1, geocoder.calls)
	got := domain.SessionFromRow(store.rows[1])
	assert.Equal(t, "Wijk aan Zee", got.City)
	assert.Equal(t, "Netherlands", got.Country)
}

func TestEnrich_LocationSkipsWithoutCoordinates(t *testing.T) {
	s := baseSession()
	s.City = ""
	s.Country = ""
	s.Lat = nil
	s.Lon = nil
	store := &fakeStore{rows: storedSession(s)}
	geocoder := &fakeGeocoder{}
	cfg := testConfig()
	cfg.EnrichWeather = false
	p := testPipeline(store, &fakeSource{}, geocoder, &fakeWeather{}, cfg)

	require.NoError(t, p.enrich(context.Background()))

	assert.Equal(t, 0, geocoder.calls)
	assert.Equal(t, 0, store.writeRangeCalls)
}

func TestEnrich_LocationAlreadyResolvedSkipped(t *testing.T) {
	store := &fakeStore{rows: storedSession(baseSession())}
	geocoder := &fakeGeocoder{}
	cfg := testConfig()
	cfg.EnrichWeather = false
	p := testPipeline(store, &fakeSource{}, geocoder, &fakeWeather{}, cfg)

	require.NoError(t, p.enrich(context.Background()))

	assert.Equal(t, 0, geocoder.calls)
}

func TestEnrich_ContentRefreshesEveryRun(t *testing.T) {
	store := &fakeStore{rows: storedSession(baseSession())}
	src := &fakeSource{details: map[int64]domain.ActivityDetail{
		429516002: {Name: "Stormy Wijk", AthleteCount: 3, Description: "6.3 sail, overpowered"},
	}}
	cfg := testConfig()
	cfg.EnrichLocation = false
	cfg.EnrichWeather = false
	cfg.EnrichContent = true
	p := testPipeline(store, src, nil, nil, cfg)

	require.NoError(t, p.enrich(context.Background()))

	assert.Equal(t, 1, src.detailCalls)
	got := domain.SessionFromRow(store.rows[1])
	assert.Equal(t, "Stormy Wijk", got.Name)
	require.NotNil(t, got.Friends)
	assert.Equal(t, int64(3), *got.Friends)
	assert.Equal(t, "6.3 sail, overpowered", got.Description)
}

func TestEnrich_ContentAuthorizationErrorAborts(t *testing.T) {
	store := &fakeStore{rows: storedSession(baseSession())}
	src := &fakeSource{detailErr: &domain.AuthorizationError{AuthURL: "https://example.test/authorize"}}
	cfg := testConfig()
	cfg.EnrichLocation = false
	cfg.EnrichWeather = false
	cfg.EnrichContent = true
	p := testPipeline(store, src, nil, nil, cfg)

	err := p.enrich(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsAuthorizationError(err))
}

func TestEnrich_DisabledByConfig(t *testing.T) {
	store := &fakeStore{rows: storedSession(baseSession())}
	weather := &fakeWeather{feed: stationFeed}
	cfg := testConfig()
	cfg.UpdateSessions = false
	p := testPipeline(store, &fakeSource{}, &fakeGeocoder{}, weather, cfg)

	require.NoError(t, p.enrich(context.Background()))

	assert.Equal(t, 0, weather.calls)
	assert.Equal(t, 0, store.writeRangeCalls)
}

func TestEnrich_NoChangeNoWrite(t *testing.T) {
	s := baseSession()
	s.AvgWind = f64(3.9)
	s.AvgGusts = f64(7.8)
	s.AvgWindDir = f64(230)
	s.AvgTemp = f64(16)
	store := &fakeStore{rows: storedSession(s)}
	p := testPipeline(store, &fakeSource{}, &fakeGeocoder{}, &fakeWeather{feed: stationFeed}, testConfig())

	require.NoError(t, p.enrich(context.Background()))

	assert.Equal(t, 0, store.writeRangeCalls, "dirty flag gates the bulk write")
}
