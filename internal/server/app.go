// Package server wires configuration, storage, the credential service and
// its HTTP and gRPC transports, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/tokenprovider/internal/cryptox"
	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/dmitrijs2005/tokenprovider/internal/server/auth"
	"github.com/dmitrijs2005/tokenprovider/internal/server/config"
	"github.com/dmitrijs2005/tokenprovider/internal/server/credentials"
	"github.com/dmitrijs2005/tokenprovider/internal/server/httpapi"
	"github.com/dmitrijs2005/tokenprovider/internal/server/renewal"
	"github.com/dmitrijs2005/tokenprovider/internal/server/repositories/renewals"
	"github.com/dmitrijs2005/tokenprovider/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/tokenprovider/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	credentials *credentials.Service
	sweeper     *renewal.Sweeper
}

// OpenStore opens the database, applies migrations and returns the renewal
// repository, wrapped in the Redis cache when enabled.
func OpenStore(ctx context.Context, c *config.Config, clock timex.Clock, logger logging.Logger) (*sql.DB, *redis.Client, renewals.Repository, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager(clock)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("migrations error: %w", err)
	}

	repo := rm.Renewals(db)
	if !c.RedisCacheEnabled {
		return db, nil, repo, nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		// the cache is optional; lookups fall through to the database
		logger.Warn(ctx, "redis unavailable", "addr", c.RedisAddr, "error", err)
	}
	return db, rc, renewals.NewCachedRepository(repo, rc, c.RedisCacheTTL, clock, logger), nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	clock := timex.SystemClock()

	db, rc, repo, err := OpenStore(ctx, c, clock, logger)
	if err != nil {
		return nil, err
	}

	signer := auth.NewSigner([]byte(c.SecretKey), c.Issuer, c.Audience, clock)

	coord := renewal.NewCoordinator(repo, clock, cryptox.SystemRandom(), renewal.Options{
		Lifetime:        c.RefreshTokenValidityDuration,
		RotationHorizon: c.RotationHorizon,
		WriteTimeout:    c.StoreWriteTimeout,
		RevokeOnRotate:  c.RevokeOnRotate,
	}, logger)

	svc := credentials.NewService(signer, coord, clock, credentials.Options{
		AccessTokenTTL: c.AccessTokenValidityDuration,
		RequestTimeout: c.RequestTimeout,
	}, logger)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		redis:       rc,
		credentials: svc,
		sweeper:     renewal.NewSweeper(repo, clock, c.PurgeInterval, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.credentials)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.credentials, httpapi.RouterOptions{
		Cookie: httpapi.CookieOptions{
			Name:   app.config.CookieName,
			Domain: app.config.CookieDomain,
			Secure: app.config.CookieSecure,
		},
		MetricsEnabled: app.config.MetricsEnabled,
		Health:         app.db.PingContext,
	}, app.logger)

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()

	app.close(context.WithoutCancel(ctx))
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
