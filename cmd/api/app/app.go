package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mkravets/product-catalog/internal/adapters/cache"
	"github.com/mkravets/product-catalog/internal/adapters/repository"
	"github.com/mkravets/product-catalog/internal/config"
	"github.com/mkravets/product-catalog/internal/routing"
	"github.com/mkravets/product-catalog/internal/service"
)

const (
	startupMaxElapsed = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type App struct {
	config *config.Config
	log    *logrus.Logger
	db     *sql.DB
	redis  *redis.Client
	server *http.Server
}

func New() (*App, error) {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := waitFor("postgres", log, db.Ping); err != nil {
		return nil, err
	}
	if err := repository.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := waitFor("redis", log, func() error {
		return redisClient.Ping(context.Background()).Err()
	}); err != nil {
		return nil, err
	}

	repo := repository.NewPostgresRepository(db)
	redisCache := cache.NewRedisCache(redisClient)
	catalog := service.NewCatalogService(repo, redisCache, cfg.CacheTTL, log)

	products := routing.NewProductHandler(catalog, log)
	health := routing.NewHealthHandler(repo, redisCache, log)
	router := routing.NewRouter(products, health).SetupRoutes()

	handler := routing.RequestLogger(log)(routing.RequestTimeout(cfg.RequestTimeout)(router))

	return &App{
		config: cfg,
		log:    log,
		db:     db,
		redis:  redisClient,
		server: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: handler,
		},
	}, nil
}

// waitFor pings a dependency with bounded exponential backoff so a service
// started alongside its backends does not crash before they accept
// connections.
func waitFor(name string, log *logrus.Logger, ping func() error) error {
	policy := backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(startupMaxElapsed),
	)
	err := backoff.RetryNotify(ping, policy, func(err error, next time.Duration) {
		log.WithFields(logrus.Fields{"dependency": name, "retry_in": next.String()}).
			WithError(err).Warn("dependency not ready")
	})
	if err != nil {
		return fmt.Errorf("%s unreachable: %w", name, err)
	}
	log.WithField("dependency", name).Info("dependency ready")
	return nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", a.server.Addr).Info("server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.WithError(err).Error("server shutdown failed")
	}
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Error("closing redis client failed")
	}
	if err := a.db.Close(); err != nil {
		a.log.WithError(err).Error("closing database pool failed")
	}
	return nil
}
