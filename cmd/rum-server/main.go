package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.etcd.io/bbolt"

	"github.com/gatewayz/rum-server/config"
	boltadapter "github.com/gatewayz/rum-server/internal/adapter/driven"
	"github.com/gatewayz/rum-server/internal/adapter/driver"
	"github.com/gatewayz/rum-server/internal/application"
	"github.com/gatewayz/rum-server/internal/memory"
	"github.com/gatewayz/rum-server/internal/port/driven"
)

func logLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Create structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting rum-server",
		"address", cfg.HTTP.Address,
		"port", cfg.HTTP.Port,
		"store_backend", cfg.Store.Backend,
		"max_samples", cfg.Store.MaxSamples,
		"retention", cfg.Store.Retention.String(),
		"log_level", cfg.Log.Level,
	)

	// Create the sample store
	var store driven.SampleRepository
	switch cfg.Store.Backend {
	case "bolt":
		db, err := bbolt.Open(cfg.Store.Path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("error closing database: %v", err)
			}
		}()

		store, err = boltadapter.NewSampleBoltDBRepository(db, cfg.Store.MaxSamples, cfg.Store.Retention)
		if err != nil {
			log.Fatalf("failed to create sample repository: %v", err)
		}
	default:
		store = memory.NewSampleStore(cfg.Store.MaxSamples, cfg.Store.Retention)
	}

	// Create application services
	vitalsService := application.NewVitalsService(store, logger)
	healthService := application.NewHealthService(store)

	// Create HTTP handlers
	vitalsHandler := driver.NewVitalsHTTPHandler(vitalsService)
	healthHandler := driver.NewHealthHTTPHandler(healthService)

	// Register routes
	mux := http.NewServeMux()
	mux.Handle("/vitals", vitalsHandler)
	mux.Handle("/vitals/", vitalsHandler)
	mux.Handle("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.HTTP.Address + ":" + cfg.HTTP.Port,
		Handler:      driver.WithRequestLogging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
