package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockflow/inventory-api/internal/alerts"
	"github.com/stockflow/inventory-api/internal/auth"
	"github.com/stockflow/inventory-api/internal/cache"
	"github.com/stockflow/inventory-api/internal/config"
	"github.com/stockflow/inventory-api/internal/db"
	"github.com/stockflow/inventory-api/internal/http/handlers"
	mw "github.com/stockflow/inventory-api/internal/http/middleware"
	rl "github.com/stockflow/inventory-api/internal/http/rate_limiter"
	"github.com/stockflow/inventory-api/internal/http/router"
	"github.com/stockflow/inventory-api/internal/logging"
	"github.com/stockflow/inventory-api/internal/repo"
)

// @title Inventory Management API
// @version 1.0
// @description REST API for managing inventory products, stock levels and users.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.Environment)

	auth.Configure(cfg.JWTSecret, cfg.AccessTokenTTL)
	rl.Configure(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rl.StartVisitorCleanupLoop()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("could not connect to database")
	}
	defer database.Close()

	if err := db.Migrate(database, cfg.MigrationsDir); err != nil {
		logger.WithError(err).Fatal("could not run migrations")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unavailable, caching and alert summaries disabled")
			rdb = nil
		}
		cancel()
		if rdb != nil {
			defer rdb.Close()
		}
	}

	if !cfg.CacheDisabled {
		handlers.SetCache(cache.New(rdb, cfg.CacheTTL))
	}

	notifier := alerts.NewNotifier(alerts.SMTPConfig{
		From:         cfg.AlertFrom,
		To:           cfg.AlertTo,
		Server:       cfg.SMTPServer,
		Port:         cfg.SMTPPort,
		User:         cfg.SMTPUser,
		Password:     cfg.SMTPPassword,
		AuthDisabled: cfg.SMTPAuthDisabled,
	}, rdb, logger)
	go notifier.StartDailySummary(24 * time.Hour)
	handlers.SetNotifier(notifier)

	userRepo := repo.NewPostgresUserRepository(database)
	handlers.SetProductRepo(repo.NewPostgresProductRepository(database))
	handlers.SetUserRepo(userRepo)
	handlers.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))
	handlers.SetLogger(logger)
	handlers.SetEnvironment(cfg.Environment)
	mw.SetUserRepo(userRepo)
	mw.SetLogger(logger)

	r := router.New()
	logger.WithField("addr", cfg.ServerAddr).Info("server listening")
	if err := http.ListenAndServe(cfg.ServerAddr, r); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
