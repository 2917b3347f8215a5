package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/rudybnb/workforce-api/api"
	"github.com/rudybnb/workforce-api/internal/config"
	"github.com/rudybnb/workforce-api/internal/db"
	"github.com/rudybnb/workforce-api/internal/logging"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel)
	api.SetLogger(logger)

	logger.Info("starting workforce API",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("environment", cfg.Environment),
		slog.String("driver", cfg.Database.Driver()),
	)

	ctx := context.Background()

	// Open database connection
	database, err := db.New(ctx, cfg.Database.Driver(), cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to open database", slog.Any("err", err))
		os.Exit(1)
	}

	// The hosted Postgres schema is managed by the bot platform;
	// migrations only run against the local SQLite file.
	if cfg.Database.Driver() == config.DriverSQLite {
		if err := db.Migrate(database); err != nil {
			logger.Error("failed to run migrations", slog.Any("err", err))
			database.Close()
			os.Exit(1)
		}
	}

	handler := api.SetupRoutes(cfg, version, buildTime, database)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", slog.Any("err", err))
	}

	// Close database connection
	if err := database.Close(); err != nil {
		logger.Error("error closing database", slog.Any("err", err))
	}

	logger.Info("server exited")
}
