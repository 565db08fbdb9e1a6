package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/skycast/internal/weather/providers"
)

type AppConfig struct {
	Port        string        `validate:"required,numeric"`
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Collaborator endpoints.
	GeocodingURL        string `validate:"required,url"`
	ReverseGeocodingURL string `validate:"required,url"`
	ForecastURL         string `validate:"required,url"`

	GeocoderBackend      string `validate:"oneof=openmeteo google"`
	GoogleGeocoderAPIKey string `validate:"required_if=GeocoderBackend google"`

	// Forward geocode cache; 0 MB disables it.
	GeocodeCacheMB  int `validate:"gte=0"`
	GeocodeCacheTTL time.Duration

	// Outbound pacing per collaborator.
	ProviderRPS   float64 `validate:"gt=0"`
	ProviderBurst int     `validate:"gte=1"`

	HistoryBackend string `validate:"oneof=file sqlite memory"`
	HistoryPath    string `validate:"required_unless=HistoryBackend memory"`
	HistoryLimit   int    `validate:"gte=1"`

	// Optional fixed position used for the startup geolocation lookup.
	HomeLatitude       *float64 `validate:"omitempty,gte=-90,lte=90"`
	HomeLongitude      *float64 `validate:"omitempty,gte=-180,lte=180"`
	GeolocationTimeout time.Duration

	// Connectivity probe; an interval of 0 disables it.
	CircuitBreakerEnabled bool

	ProbeInterval time.Duration `validate:"gte=0"`
	ProbeURL      string        `validate:"omitempty,url"`
	StartOnline   bool

	LogLevel       string `validate:"oneof=trace debug info warn error"`
	LogPretty      bool
	MetricsEnabled bool

	ConditionMessages bool
	ConditionIcons    bool
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.GeocodingURL = getenvDefault("GEOCODING_URL", providers.DefaultGeocodingURL)
	cfg.ReverseGeocodingURL = getenvDefault("REVERSE_GEOCODING_URL", providers.DefaultReverseGeocodingURL)
	cfg.ForecastURL = getenvDefault("FORECAST_URL", providers.DefaultForecastURL)

	cfg.GeocoderBackend = strings.ToLower(getenvDefault("GEOCODER_BACKEND", "openmeteo"))
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	cfg.GeocodeCacheMB = getenvInt("GEOCODE_CACHE_MB", 0)
	if cfg.GeocodeCacheTTL, err = getenvDuration("GEOCODE_CACHE_TTL", "1h"); err != nil {
		return nil, err
	}

	cfg.ProviderRPS = getenvFloat("PROVIDER_RPS", 5)
	cfg.ProviderBurst = getenvInt("PROVIDER_BURST", 5)

	cfg.HistoryBackend = strings.ToLower(getenvDefault("HISTORY_BACKEND", "file"))
	cfg.HistoryPath = getenvDefault("HISTORY_PATH", "skycast-history.json")
	cfg.HistoryLimit = getenvInt("HISTORY_LIMIT", 10)

	if cfg.HomeLatitude, err = getenvOptionalFloat("HOME_LATITUDE"); err != nil {
		return nil, err
	}
	if cfg.HomeLongitude, err = getenvOptionalFloat("HOME_LONGITUDE"); err != nil {
		return nil, err
	}
	if (cfg.HomeLatitude == nil) != (cfg.HomeLongitude == nil) {
		return nil, fmt.Errorf("HOME_LATITUDE and HOME_LONGITUDE must be set together")
	}
	if cfg.GeolocationTimeout, err = getenvDuration("GEOLOCATION_TIMEOUT", "7s"); err != nil {
		return nil, err
	}

	if cfg.ProbeInterval, err = getenvDuration("CONNECTIVITY_PROBE_INTERVAL", "30s"); err != nil {
		return nil, err
	}
	cfg.ProbeURL = getenvDefault("CONNECTIVITY_PROBE_URL", cfg.GeocodingURL)
	cfg.CircuitBreakerEnabled = getenvBool("CIRCUIT_BREAKER_ENABLED", false)
	cfg.StartOnline = getenvBool("START_ONLINE", true)

	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.LogPretty = getenvBool("LOG_PRETTY", false)
	cfg.MetricsEnabled = getenvBool("METRICS_ENABLED", true)

	cfg.ConditionMessages = getenvBool("CONDITION_MESSAGES", true)
	cfg.ConditionIcons = getenvBool("CONDITION_ICONS", true)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvOptionalFloat(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}
