// Package server wires the carpool components together: store, cache,
// event publisher, services and the HTTP API, and runs them until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/carpool/internal/dbx"
	"github.com/dmitrijs2005/carpool/internal/logging"
	"github.com/dmitrijs2005/carpool/internal/server/cache"
	"github.com/dmitrijs2005/carpool/internal/server/config"
	"github.com/dmitrijs2005/carpool/internal/server/events"
	"github.com/dmitrijs2005/carpool/internal/server/httpapi"
	"github.com/dmitrijs2005/carpool/internal/server/observability"
	"github.com/dmitrijs2005/carpool/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carpool/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	redis     *redis.Client
	publisher events.Publisher
	server    *httpapi.Server
}

// NewApp opens the store, applies migrations when configured and builds the
// HTTP server. Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger := logging.NewLogger(c.LogLevel, w)
	metrics := observability.NewMetrics()

	dialect, err := dbx.DialectByName(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	retrier := dbx.NewRetrier(uint64(c.StoreRetries), c.StoreRetryDelay, dialect.IsTransient).
		OnRetry(func(attempt int, err error) {
			metrics.StoreRetry()
			logger.Warn(ctx, "retrying store operation", "attempt", attempt, "error", err)
		})

	db, err := dbx.Open(ctx, dialect, c.DatabaseDSN, retrier)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewRepositoryManager(dialect)
	if c.RunMigrations {
		if err := repos.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	app := &App{config: c, logger: logger, db: db}

	var rideCache cache.RideListCache = cache.Noop{}
	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
		rideCache = cache.NewRedisRideListCache(app.redis, cache.DefaultKey, c.CacheTTL)
		logger.Info(ctx, "ride cache enabled", "redis", c.RedisAddr, "ttl", c.CacheTTL.String())
	}

	if len(c.KafkaBrokers) > 0 {
		app.publisher = events.NewKafkaPublisher(c.KafkaBrokers, c.KafkaTopic)
		logger.Info(ctx, "ledger events go to kafka", "brokers", c.KafkaBrokers, "topic", c.KafkaTopic)
	} else {
		app.publisher = events.NewLogPublisher(logger)
	}

	deps := services.Deps{
		DB:      db,
		Repos:   repos,
		Retrier: retrier,
		Log:     logger,
		Metrics: metrics,
		Events:  app.publisher,
		Cache:   rideCache,
	}

	app.server = httpapi.NewServer(
		httpapi.Options{
			Addr:            c.HTTPAddr,
			ReadTimeout:     c.ReadTimeout,
			WriteTimeout:    c.WriteTimeout,
			IdleTimeout:     c.IdleTimeout,
			ShutdownTimeout: c.ShutdownTimeout,
			JWTSecret:       []byte(c.SecretKey),
			RequireAuth:     c.RequireAuth,
		},
		logger, metrics, db,
		services.NewLedgerService(deps),
		services.NewRideService(deps),
		services.NewAccountService(deps, []byte(c.SecretKey), c.AccessTokenValidity),
	)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	stop := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-stop:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(stop)
	}
}

// Run serves until ctx is cancelled or a shutdown signal arrives, then
// releases every resource.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	stopSignals := app.initSignalHandler(cancelFunc)
	defer stopSignals()

	app.logger.Info(ctx, "Starting app...")

	err := app.server.Run(ctx)
	if closeErr := app.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}

func (app *App) Close() error {
	var errs []error
	if app.publisher != nil {
		errs = append(errs, app.publisher.Close())
	}
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	errs = append(errs, app.db.Close())
	return errors.Join(errs...)
}
