package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	httpapi "github.com/i474232898/skycast/internal/api/http"
	"github.com/i474232898/skycast/internal/config"
	"github.com/i474232898/skycast/internal/logging"
	"github.com/i474232898/skycast/internal/metrics"
	"github.com/i474232898/skycast/internal/scheduler"
	"github.com/i474232898/skycast/internal/store"
	"github.com/i474232898/skycast/internal/weather"
	"github.com/i474232898/skycast/internal/weather/providers"
)

func main() {
	envErr := godotenv.Load()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", false)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.LogPretty)
	if envErr != nil {
		log.Info().Err(envErr).Msg("no .env file loaded")
	}

	// Shared HTTP client for outbound collaborator calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// History slot and store.
	slot, closeSlot, err := openSlot(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.HistoryBackend).Msg("failed to open history slot")
	}
	defer closeSlot()
	history := store.NewHistory(slot, cfg.HistoryLimit, log)

	// Collaborators, each paced by its own limiter and guarded by its own breaker.
	geocoder := buildGeocoder(cfg, httpClient)
	source := providers.NewOpenMeteoProvider(collaboratorConfig(cfg, httpClient), cfg.ForecastURL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	state := weather.NewState(cfg.StartOnline)
	service := weather.NewService(state, geocoder, source, history, log, weather.Options{
		ConditionMessages: cfg.ConditionMessages,
		ConditionIcons:    cfg.ConditionIcons,
		Metrics:           metrics.New(registry, cfg.MetricsEnabled),
	})

	unsubscribe := state.Subscribe(func(snap weather.Snapshot) {
		ev := log.Debug().
			Bool("online", snap.Online).
			Bool("loading", snap.Loading).
			Str("unit", string(snap.Unit))
		if snap.Notification != nil {
			ev = ev.Str("notification", snap.Notification.Message)
		}
		ev.Msg("state changed")
	})
	defer unsubscribe()

	// Connectivity probe keeps the online flag current.
	prober := scheduler.New(httpClient, cfg.ProbeURL, cfg.ProbeInterval, state, log)
	if err := prober.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start connectivity probe")
	}
	defer prober.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "skycast",
		DisableStartupMessage: true,
		Immutable:             true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          errorHandler(log),
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "skycast",
			"online":  state.Online(),
		})
	})

	if cfg.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// API routes.
	httpapi.RegisterRoutes(app, service)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Startup geolocation; failures leave the initial state untouched.
	go func() {
		locator := weather.StaticLocator{Latitude: cfg.HomeLatitude, Longitude: cfg.HomeLongitude}
		if service.AutoLocate(ctx, locator, cfg.GeolocationTimeout) {
			log.Info().Msg("startup weather loaded for configured location")
		}
	}()

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
			stop()
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}

func openSlot(cfg *config.AppConfig) (store.Slot, func(), error) {
	switch cfg.HistoryBackend {
	case "sqlite":
		s, err := store.NewSQLiteSlot(cfg.HistoryPath, store.SlotName)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "memory":
		return store.NewMemorySlot(), func() {}, nil
	default:
		return store.NewFileSlot(cfg.HistoryPath), func() {}, nil
	}
}

func buildGeocoder(cfg *config.AppConfig, client *http.Client) weather.Geocoder {
	var g weather.Geocoder
	if cfg.GeocoderBackend == "google" {
		g = providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey)
	} else {
		g = providers.NewOpenMeteoGeocoder(collaboratorConfig(cfg, client), cfg.GeocodingURL, cfg.ReverseGeocodingURL)
	}
	return providers.NewCachedGeocoder(g, cfg.GeocodeCacheMB, cfg.GeocodeCacheTTL)
}

// collaboratorConfig gives each collaborator its own limiter.
func collaboratorConfig(cfg *config.AppConfig, client *http.Client) providers.HTTPClientConfig {
	return providers.HTTPClientConfig{
		Client:         client,
		Limiter:        rate.NewLimiter(rate.Limit(cfg.ProviderRPS), cfg.ProviderBurst),
		CircuitBreaker: cfg.CircuitBreakerEnabled,
	}
}

// errorHandler renders every error as the {"error","message"} envelope.
func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Warn().Err(err).Str("path", c.Path()).Int("status", code).Msg("request failed")
		}
		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}
}
