package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	httpapi "github.com/KaiRo-at/weatherthing/internal/api/http"
	"github.com/KaiRo-at/weatherthing/internal/config"
	"github.com/KaiRo-at/weatherthing/internal/observability"
	"github.com/KaiRo-at/weatherthing/internal/scheduler"
	"github.com/KaiRo-at/weatherthing/internal/sensor"
	"github.com/KaiRo-at/weatherthing/internal/station"
	"github.com/KaiRo-at/weatherthing/internal/thing"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	promReg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promReg)

	// Shared HTTP client for upstream station calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := station.NewClient(httpClient, cfg.StationURL, logger)
	cache := station.NewCache(client, cfg.CacheTTL, logger, metrics)
	cache.SetFetchTimeout(cfg.FetchTimeout)

	// Build the sensor fleet: one thing plus one updater per sensor,
	// all sharing the single observation cache.
	registry := sensor.NewRegistry(logger)
	var things []*thing.Thing
	for _, sc := range cfg.Sensors {
		var (
			t    *thing.Thing
			spec sensor.Spec
		)
		switch sc.Type {
		case "humidity":
			t, spec = thing.NewHumiditySensor(sc.Location, sc.Prefix)
		case "temperature":
			t, spec = thing.NewTemperatureSensor(sc.Location, sc.Prefix, sc.Humidity)
		case "pressure":
			t, spec = thing.NewPressureSensor(sc.Location, sc.Source)
		default:
			log.Fatalf("unknown sensor type %q", sc.Type)
		}
		things = append(things, t)
		registry.Add(sensor.NewUpdater(spec, cfg.UpdateInterval, cache, t, logger, metrics))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry.Start(ctx)

	// Optional background refresh so sensor ticks hit a warm cache.
	var prefetcher *scheduler.Prefetcher
	if cfg.CachePrefetch {
		prefetcher = scheduler.New(cache, cfg.CacheTTL, logger)
		if err := prefetcher.Start(); err != nil {
			logger.Warnf("cannot start cache prefetcher: %v", err)
			prefetcher = nil
		}
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weatherthing",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherthing",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	// API routes.
	httpapi.RegisterRoutes(app, things)

	logger.Infof("serving %d things on port %s", len(things), cfg.Port)
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal.
	<-ctx.Done()
	logger.Info("shutting down")

	if prefetcher != nil {
		prefetcher.Stop()
	}
	registry.StopAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("error during shutdown: %v", err)
	}
	logger.Info("done")
}
