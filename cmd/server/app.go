package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/taskpulse/taskpulse-api/internal/api"
	"github.com/taskpulse/taskpulse-api/internal/api/middleware"
	"github.com/taskpulse/taskpulse-api/internal/config"
	"github.com/taskpulse/taskpulse-api/internal/platform/logger"
	"github.com/taskpulse/taskpulse-api/internal/platform/postgres"
	platformredis "github.com/taskpulse/taskpulse-api/internal/platform/redis"
	"github.com/taskpulse/taskpulse-api/internal/service/analytics"
	"github.com/taskpulse/taskpulse-api/internal/service/auth"
	"github.com/taskpulse/taskpulse-api/internal/taskcache"

	redis "github.com/redis/go-redis/v9"
)

// application bundles the long-lived dependencies the HTTP layer is built
// from, so that run and the router share one wired instance.
type application struct {
	cfg    *config.Config
	logger *slog.Logger

	db          *sql.DB
	redisClient *redis.Client

	analyticsHandler *api.AnalyticsHandler
	taskHandler      *api.TaskHandler
	authMiddleware   *middleware.AuthMiddleware
}

// initializeApp loads configuration and wires every application component:
// structured logging, the Postgres-backed stores, the Redis-backed listing
// cache, the analytics services, JWT authentication, and the HTTP handlers.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	baseLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Int("cache_ttl_seconds", cfg.Cache.TTLSeconds),
		slog.Int("window_days", cfg.Analytics.WindowDays))

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := postgres.Ping(pingCtx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	redisClient := platformredis.NewClient(cfg.Redis.Addr)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		_ = db.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	taskStore := postgres.NewPostgresTaskStore(db)
	userStore := postgres.NewPostgresUserStore(db)

	cache := taskcache.New(
		platformredis.NewBacking(redisClient),
		baseLogger,
		taskcache.WithTTL(time.Duration(cfg.Cache.TTLSeconds)*time.Second),
	)

	aggregator := analytics.NewAggregator(taskStore, baseLogger)
	statistics := analytics.NewStatistics(taskStore, baseLogger)
	analyticsService := analytics.NewService(aggregator, statistics, userStore, baseLogger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return &application{
		cfg:              cfg,
		logger:           baseLogger,
		db:               db,
		redisClient:      redisClient,
		analyticsHandler: api.NewAnalyticsHandler(analyticsService, cfg.Analytics.WindowDays, baseLogger),
		taskHandler:      api.NewTaskHandler(taskStore, cache, baseLogger),
		authMiddleware:   middleware.NewAuthMiddleware(jwtService),
	}, nil
}

// Close releases the application's external connections.
func (a *application) Close() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", slog.String("error", err.Error()))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Failed to close database", slog.String("error", err.Error()))
		}
	}
}
