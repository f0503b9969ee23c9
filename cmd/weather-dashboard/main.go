package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider, err := providers.New(cfg.Provider, cfg.WeatherAPIKey, cfg.OpenWeatherAPIKey, providers.Options{
		Client:      httpClient,
		RateLimit:   cfg.RateLimitRPS,
		Burst:       cfg.RateLimitBurst,
		Granularity: providers.Granularity(cfg.ForecastGranularity),
	})
	if err != nil {
		zapLogger.Fatal("failed to create weather provider", zap.Error(err))
	}
	if !cfg.WeatherEnabled() {
		zapLogger.Warn("no weather API key configured; dashboard updates are skipped",
			zap.String("provider", cfg.Provider))
	}
	if cfg.MapToken == "" {
		zapLogger.Info("no map token configured; map is disabled")
	}

	// In-memory session store with configured retention.
	memStore := store.NewMemoryStore(cfg.SessionMax, cfg.SessionMaxAge)

	locator := geo.NewLocator(cfg.GeocoderAPIKey, zapLogger.Named("geo"))

	// Core service orchestrating provider, locator and store.
	service := weather.NewService(memStore, provider, locator, weather.ServiceConfig{
		MapToken: cfg.MapToken,
	}, zapLogger.Named("dashboard"))

	// Scheduler that periodically refreshes configured cities.
	sched := scheduler.New(cfg.Cities, cfg.RefreshInterval, service, zapLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		zapLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          errorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "${time} ${locals:requestid} ${status} - ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "ok",
			"service":         "weather-dashboard",
			"weather_enabled": cfg.WeatherEnabled(),
			"map_enabled":     service.MapEnabled(),
			"sessions":        memStore.Len(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, zapLogger.Named("http"))

	go func() {
		zapLogger.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zapLogger.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zapLogger.Error("error during shutdown", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// errorHandler renders every unhandled error the same way.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
