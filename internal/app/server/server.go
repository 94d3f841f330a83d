package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"

	"hrperf/internal/domain/auth"
	"hrperf/internal/domain/employee"
	"hrperf/internal/domain/notifications"
	"hrperf/internal/domain/performance"
	"hrperf/internal/platform/config"
	cryptoutil "hrperf/internal/platform/crypto"
	"hrperf/internal/platform/db"
	"hrperf/internal/platform/email"
	"hrperf/internal/platform/jobs"
	"hrperf/internal/storage/memory"
	"hrperf/internal/storage/postgres"
	"hrperf/internal/transport/http/middleware"
)

// Backend is a storage driver serving both stores.
type Backend interface {
	employee.Store
	performance.Store
	Ping(ctx context.Context) error
	Close()
}

type App struct {
	Config  config.Config
	Store   Backend
	Router  http.Handler
	closers []func()
}

// New wires the application for cfg. Callers must Close the returned App.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	trusted, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store
	app.closers = append(app.closers, store.Close)

	if cfg.SeedDemoData {
		if err := db.Seed(ctx, store, store); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	sealer, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		app.Close()
		return nil, err
	}

	rateStore, err := app.openRateStore(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	queue := jobs.New(256, 2)
	queue.Start(context.WithoutCancel(ctx))
	app.closers = append(app.closers, queue.Stop)

	employees := employee.NewService(store, sealer)
	notifier := notifications.New(store, email.New(cfg), cfg.EmailFrom).WithDispatcher(queue)
	reviews := performance.NewService(store, store, notifier)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	gate := middleware.NewGate(tokens, store, cfg.AuthRecheckIdentity)

	app.Router = newRouter(cfg, store, gate, rateStore, middleware.NewProxyTrust(trusted), employees, reviews, tokens)
	return app, nil
}

// OpenStore selects the storage driver. The postgres driver is migrated first when
// RUN_MIGRATIONS is set.
func OpenStore(ctx context.Context, cfg config.Config) (Backend, error) {
	if cfg.StoreDriver != config.DriverPostgres {
		return memory.New(), nil
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return postgres.New(pool), nil
}

func (a *App) openRateStore(cfg config.Config) (limiter.Store, error) {
	if cfg.RateLimitStorage != config.RateLimitStorageRedis {
		return middleware.NewMemoryRateStore(), nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	a.closers = append(a.closers, func() { _ = client.Close() })
	return middleware.NewRedisRateStore(client)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("performance server listening", "addr", a.Config.Addr, "store", a.Config.StoreDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	slog.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
