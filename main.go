package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"health-tracker/internal/badges"
	"health-tracker/internal/config"
	"health-tracker/internal/database"
	"health-tracker/internal/events"
	"health-tracker/internal/geo"
	"health-tracker/internal/geocode"
	"health-tracker/internal/handlers"
	"health-tracker/internal/metrics"
	"health-tracker/internal/tracker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set up logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting health-tracker server",
		"host", cfg.Host,
		"port", cfg.Port,
		"database_driver", cfg.DatabaseDriver,
		"log_level", cfg.LogLevel,
		"geocoder", cfg.OpenStreetMapBaseURL)

	// Open database
	db, err := database.Open(cfg.DatabaseDriver, cfg.DSN())
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Init(context.Background()); err != nil {
		logger.Error("Failed to initialise schema", "error", err)
		os.Exit(1)
	}

	logger.Info("Database opened successfully")

	// Reverse geocoding with a shared name cache
	client := geocode.NewClient(cfg.OpenStreetMapBaseURL, cfg.OpenStreetMapUserAgent, cfg.GeocodeTimeout(), logger)
	cache := geocode.NewCache(
		geocode.WithMaxEntries(cfg.GeocodeCacheSize),
		geocode.WithTTL(cfg.GeocodeCacheTTL()),
	)
	breaker := geocode.NewBreakingGeocoder(client, cfg.GeocodeBreaker(), logger)
	estimator := geo.NewEstimator(geocode.NewCachingGeocoder(breaker, cache))

	// Activity events
	var publisher events.Publisher = events.NoopPublisher{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		logger.Info("Publishing activity events", "brokers", brokers, "topic", cfg.KafkaTopic)
	}
	defer publisher.Close()

	svc := tracker.NewService(db, estimator, publisher, logger)
	handler := handlers.NewHandler(svc, badges.NewStore(cfg.UploadsDir), db)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	collectorCtx, collectorCancel := context.WithCancel(context.Background())
	defer collectorCancel()

	// Start metrics server if enabled
	var metricsServer *http.Server
	if cfg.MetricsEnabled {
		go func() {
			logger.Info("Starting entity count collector")
			metrics.StartEntityCountCollector(collectorCtx, db, 15*time.Second)
		}()

		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())

		metricsAddr := fmt.Sprintf("%s:%d", cfg.MetricsHost, cfg.MetricsPort)
		metricsServer = &http.Server{
			Addr:    metricsAddr,
			Handler: metricsMux,
		}

		go func() {
			logger.Info("Metrics server listening", "addr", metricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// Start HTTP server in background
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down gracefully...")

	collectorCancel()

	// Shutdown HTTP servers with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", "error", err)
		}
	}

	logger.Info("Server stopped")
}
