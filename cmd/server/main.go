package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pricebook/pricebook/internal/api"
	"github.com/pricebook/pricebook/internal/api/handler"
	"github.com/pricebook/pricebook/internal/cache"
	"github.com/pricebook/pricebook/internal/catalog"
	"github.com/pricebook/pricebook/internal/config"
	"github.com/pricebook/pricebook/internal/currency"
	"github.com/pricebook/pricebook/internal/database"
	"github.com/pricebook/pricebook/internal/editor"
	"github.com/pricebook/pricebook/internal/events"
	"github.com/pricebook/pricebook/internal/location"
	"github.com/pricebook/pricebook/internal/pricing"
	"github.com/pricebook/pricebook/internal/staff"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	dbCheck := handler.HealthCheck{Name: "database", Pinger: db}
	cacheCheck := handler.HealthCheck{Name: "cache"}

	var overrideCache cache.Cache = cache.Nop{}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		rc := cache.NewRedisCache(client, "pricebook", cfg.CacheTTL)
		overrideCache = rc
		cacheCheck.Pinger = rc
		slog.Info("override cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		p := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
		defer func() {
			if err := p.Close(); err != nil {
				slog.Warn("failed to close event publisher", "error", err)
			}
		}()
		publisher = p
		slog.Info("commit events enabled", "queue", cfg.EventsQueue)
	}

	sessions := editor.NewStore()
	go editor.NewSweeper(sessions, cfg.EditorIdleTimeout, cfg.EditorSweepInterval).Start(ctx)

	svc := pricing.NewService(pricing.Deps{
		Catalog:         catalog.NewPostgresRepository(db.Pool()),
		Locations:       location.NewPostgresRepository(db.Pool()),
		Staff:           staff.NewPostgresRepository(db.Pool()),
		Currencies:      currency.NewDefaultRegistry(),
		DefaultCurrency: cfg.DefaultCurrency,
		Sessions:        sessions,
		Cache:           overrideCache,
		Publisher:       publisher,
	})

	openAPI, err := handler.NewOpenAPIHandler(api.OpenAPISpec)
	if err != nil {
		slog.Error("failed to load OpenAPI document", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterDeps{
		Pricing:      svc,
		HealthChecks: []handler.HealthCheck{dbCheck, cacheCheck},
		Version:      cfg.Version,
		APIKeyHash:   cfg.APIKeyHash,
		OpenAPI:      openAPI,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting pricebook server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(logHandler))
}
