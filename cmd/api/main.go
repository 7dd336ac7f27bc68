// Package main is the entry point for the Itinerary API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pkordes/itinerary/internal/auth"
	"github.com/pkordes/itinerary/internal/config"
	"github.com/pkordes/itinerary/internal/handler"
	"github.com/pkordes/itinerary/internal/middleware"
	"github.com/pkordes/itinerary/internal/repo"
	"github.com/pkordes/itinerary/internal/service"
	"github.com/pkordes/itinerary/migrations"
)

func main() {
	if err := run(); err != nil {
		// Use plain stderr if the logger never got configured.
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Config -----------------------------------------------------------
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// --- Logger -----------------------------------------------------------
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		defer rotator.Close()
		out = rotator
	}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("creating database pool: %w", err)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		sqlDB := stdlib.OpenDBFromPool(pool)
		err := migrations.Up(ctx, sqlDB, logger)
		sqlDB.Close()
		if err != nil {
			return err
		}
	}

	checks := map[string]handler.Checker{
		"db": handler.CheckFunc(pool.Ping),
	}

	// --- Repositories -----------------------------------------------------
	trips := repo.NewTripRepo(pool)
	stops := repo.NewStopRepo(pool)
	catalog := repo.NewCatalogRepo(pool)

	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		logger.Info("catalog cache enabled", "ttl", cfg.CatalogCacheTTL)

		catalog = repo.NewCachedCatalogRepo(catalog, rdb, cfg.CatalogCacheTTL, logger)
		checks["redis"] = handler.CheckFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	// --- Services ---------------------------------------------------------
	tripSvc := service.NewTripService(repo.NewTxRunner(pool), trips, stops, catalog, logger)
	catalogSvc := service.NewCatalogService(catalog)
	exportSvc := service.NewExportService(trips, stops, catalog)

	srv := handler.NewServer(handler.Deps{
		Trips:   tripSvc,
		Catalog: catalogSvc,
		Export:  exportSvc,
		Auth:    auth.New(cfg.JWTSecret, cfg.TokenTTL),
		Checks:  checks,
		Logger:  logger,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: on SIGINT/SIGTERM give in-flight requests up to
	// 15 seconds to complete before forcefully closing.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
