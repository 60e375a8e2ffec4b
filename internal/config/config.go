package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Mode selects the environment profile, mirroring the test/prod split of the
// original spreadsheet settings.
const (
	ModeTest = "test"
	ModeProd = "prod"
)

// Config holds all pipeline settings. It is constructed once at process
// start and passed by reference into every component; there is no ambient
// global configuration.
type Config struct {
	Mode      string
	SheetName string

	// Strava credentials and ingestion settings.
	StravaClientID     string
	StravaClientSecret string
	StravaRefreshToken string
	StravaTimeout      time.Duration
	ActivityType       string
	PerPage            int

	// Spreadsheet settings.
	SpreadsheetID   string
	CredentialsFile string
	MarkupData      bool

	// Enrichment stage toggles.
	UpdateSessions bool
	EnrichLocation bool
	EnrichContent  bool
	EnrichWeather  bool

	// Geocoding (Google Maps) settings.
	MapsAPIKey  string
	MapsTimeout time.Duration

	// Weather (KNMI) settings.
	KNMITimeout      time.Duration
	SupportedCountry string

	// Cache validity windows.
	GeocodeTTL time.Duration
	WeatherTTL time.Duration
	ContentTTL time.Duration

	// Observability.
	HTTPAddr  string // empty disables the metrics listener
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying the profile
// defaults for the given mode and validating required settings.
func Load(mode string) (*Config, error) {
	if mode == "" {
		mode = ModeProd
	}
	if mode != ModeTest && mode != ModeProd {
		return nil, fmt.Errorf("unknown mode %q (want %q or %q)", mode, ModeTest, ModeProd)
	}

	cfg := &Config{
		Mode:      mode,
		SheetName: envOrDefault("SHEET_NAME", defaultSheetName(mode)),

		StravaClientID:     os.Getenv("STRAVA_CLIENT_ID"),
		StravaClientSecret: os.Getenv("STRAVA_CLIENT_SECRET"),
		StravaRefreshToken: os.Getenv("STRAVA_REFRESH_TOKEN"),
		ActivityType:       envOrDefault("ACTIVITY_TYPE", "Windsurf"),

		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		CredentialsFile: os.Getenv("SHEETS_CREDENTIALS_FILE"),

		MapsAPIKey: os.Getenv("MAPS_API_KEY"),

		SupportedCountry: envOrDefault("SUPPORTED_COUNTRY", "Netherlands"),

		HTTPAddr:  os.Getenv("HTTP_ADDR"),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
	}

	// Stage toggles default per profile: prod re-fetches user content but
	// leaves weather to the test rollout; test exercises location and
	// weather against the scratch sheet.
	cfg.UpdateSessions = envBool("UPDATE_SESSIONS", true)
	cfg.EnrichLocation = envBool("ENRICH_LOCATION", true)
	cfg.EnrichContent = envBool("ENRICH_CONTENT", mode == ModeProd)
	cfg.EnrichWeather = envBool("ENRICH_WEATHER", mode == ModeTest)
	cfg.MarkupData = envBool("MARKUP_DATA", true)

	var err error
	if cfg.PerPage, err = envInt("STRAVA_PER_PAGE", 30); err != nil {
		return nil, err
	}
	if cfg.StravaTimeout, err = envDuration("STRAVA_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.MapsTimeout, err = envDuration("MAPS_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.KNMITimeout, err = envDuration("KNMI_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.GeocodeTTL, err = envDuration("GEOCODE_CACHE_TTL", 6*time.Hour); err != nil {
		return nil, err
	}
	if cfg.WeatherTTL, err = envDuration("WEATHER_CACHE_TTL", 6*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ContentTTL, err = envDuration("CONTENT_CACHE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	if cfg.SpreadsheetID == "" {
		return nil, errors.New("SPREADSHEET_ID is required")
	}
	if cfg.StravaClientID == "" || cfg.StravaClientSecret == "" {
		return nil, errors.New("STRAVA_CLIENT_ID and STRAVA_CLIENT_SECRET are required")
	}
	if cfg.EnrichLocation && cfg.MapsAPIKey == "" {
		return nil, errors.New("ENRICH_LOCATION is enabled but MAPS_API_KEY is not set")
	}

	return cfg, nil
}

func defaultSheetName(mode string) string {
	if mode == ModeTest {
		return "Sessions[T]"
	}
	return "Sessions"
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "true" || v == "1"
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}
