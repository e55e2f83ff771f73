// Package server wires the bookshelf API together: storage, optional Redis
// cache and rate limiting, optional cover presigning, the HTTP API and the
// gRPC health endpoint. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/config"
	"github.com/dmitrijs2005/bookshelf/internal/server/covers"
	"github.com/dmitrijs2005/bookshelf/internal/server/httpapi"
	"github.com/dmitrijs2005/bookshelf/internal/server/ratelimit"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookshelf/internal/server/services"
	"github.com/dmitrijs2005/bookshelf/internal/server/telemetry"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/bookshelf/internal/server/grpc"
)

const redisPingTimeout = 2 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger

	// closers run in reverse order once the servers stop.
	closers []func() error
}

func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger := logging.NewJSON(os.Stdout, c.LogLevel)
	return &App{config: c, logger: logger}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// openDatabase connects and migrates the schema.
func (app *App) openDatabase(ctx context.Context) (*sql.DB, *repomanager.SQLRepositoryManager, error) {
	c := app.config

	db, err := dbx.Open(ctx, c.DatabaseDriver, c.DatabaseDSN, dbx.DefaultPoolOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, db.Close)

	rm := repomanager.NewSQLRepositoryManager(c.DatabaseDriver)
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, nil, fmt.Errorf("migrations error: %w", err)
	}
	return db, rm, nil
}

// initRedis enables the catalog cache and the auth rate limiter. An
// unreachable Redis at startup is logged but tolerated: both consumers fall
// back when Redis fails.
func (app *App) initRedis(ctx context.Context, db *sql.DB, rm *repomanager.SQLRepositoryManager) httpapi.Limiter {
	c := app.config
	if c.RedisAddr == "" {
		app.logger.Info(ctx, "Redis disabled: catalog cache and rate limiting off")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	app.closers = append(app.closers, rdb.Close)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		app.logger.Warn(ctx, "Redis unreachable, continuing without it until it recovers", "addr", c.RedisAddr, "error", err)
	}

	rm.WithCatalog(books.NewCachedRepository(books.NewSQLRepository(db), rdb, c.CacheTTL, app.logger))
	return ratelimit.New(rdb, "auth", c.RateLimitBurst, c.RateLimitPerSecond)
}

// initCovers returns a presigner when an object store is configured. The
// result is a nil interface otherwise.
func (app *App) initCovers(ctx context.Context) (services.CoverSigner, error) {
	c := app.config
	if c.S3BaseEndpoint == "" {
		return nil, nil
	}

	p, err := covers.NewPresigner(ctx, covers.Options{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("covers init error: %w", err)
	}
	return p, nil
}

func (app *App) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn(ctx, "close failed", "error", err)
		}
	}
	app.closers = nil
}

// Run starts the servers and blocks until a signal arrives, ctx is
// cancelled, or a server fails.
func (app *App) Run(ctx context.Context) error {
	c := app.config

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	shutdownTracing, err := telemetry.Setup(ctx, c.OTLPEndpoint, telemetry.ServiceName)
	if err != nil {
		return fmt.Errorf("telemetry init error: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			app.logger.Warn(ctx, "trace flush failed", "error", err)
		}
	}()

	defer app.close(ctx)

	db, rm, err := app.openDatabase(ctx)
	if err != nil {
		return err
	}

	limiter := app.initRedis(ctx, db, rm)

	signer, err := app.initCovers(ctx)
	if err != nil {
		return err
	}

	h := httpapi.NewHandler(
		services.NewUserService(db, rm, c, app.logger),
		services.NewCatalogService(db, rm, signer, app.logger),
		services.NewLibraryService(db, rm, signer, app.logger),
		app.logger,
		httpapi.Options{
			CORSOrigin:     c.CORSOrigin,
			TrustProxy:     c.TrustProxy,
			CookieSecure:   c.CookieSecure,
			RequestTimeout: c.DBTimeout,
			Limiter:        limiter,
			Tracing:        c.OTLPEndpoint != "",
		},
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpapi.NewServer(c.HTTPAddr, h.Routes(), app.logger).Run(gctx)
	})

	if c.GRPCHealthAddr != "" {
		g.Go(func() error {
			return gs.NewHealthServer(c.GRPCHealthAddr, app.logger, db, gs.DefaultCheckInterval).Run(gctx)
		})
	}

	err = g.Wait()
	app.logger.Info(ctx, "App stopped")
	return err
}
