// Package server wires configuration, storage, services and transports into
// a runnable process and owns its graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/resumebuilder/internal/buildinfo"
	"github.com/dmitrijs2005/resumebuilder/internal/logging"
	"github.com/dmitrijs2005/resumebuilder/internal/server/auth"
	"github.com/dmitrijs2005/resumebuilder/internal/server/config"
	"github.com/dmitrijs2005/resumebuilder/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/resumebuilder/internal/server/services"

	gs "github.com/dmitrijs2005/resumebuilder/internal/server/grpc"
	rh "github.com/dmitrijs2005/resumebuilder/internal/server/http"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *http.Server
	health *gs.HealthServer
}

// NewApp opens the database, applies migrations and builds every service
// from c. The caller owns the returned App and must call Run.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  []byte(c.AccessTokenSecret),
		RefreshSecret: []byte(c.RefreshTokenSecret),
		AccessTTL:     c.AccessTokenValidityDuration,
		RefreshTTL:    c.RefreshTokenValidityDuration,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("token service error: %w", err)
	}

	hasher := auth.NewBcryptHasher(c.BcryptCost)

	router := rh.NewRouter(rh.Deps{
		Auth:    services.NewUserService(db, manager, tokens, hasher, logger),
		Resumes: services.NewResumeService(db, manager, c.PublicBaseURL, logger),
		Avatars: services.NewAvatarService(db, manager, c, logger),
		Tokens:  tokens,
		DB:      db,
		Logger:  logger,
		Options: rh.Options{
			CookieName:   c.CookieName,
			CookieSecure: c.CookieSecure,
			CookieMaxAge: c.AccessTokenValidityDuration,
			Version:      buildinfo.Version,
		},
	})

	return &App{
		config: c,
		logger: logger,
		db:     db,
		http:   &http.Server{Addr: c.EndpointAddrHTTP, Handler: router},
		health: gs.NewHealthServer(c.EndpointAddrGRPC, logger),
	}, nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.logger.Info(ctx, "Starting HTTP server", "address", app.http.Addr)
	if err := app.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.health.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server error", "error", err)
		cancelFunc()
	}
}

// Run serves until SIGINT/SIGTERM or a listener failure, then drains in-flight
// requests within ShutdownTimeout and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "version", buildinfo.Version)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, stop)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, stop)
	}()

	<-ctx.Done()
	app.logger.Info(context.Background(), "Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := app.http.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("db close: %w", err))
	}
	return errors.Join(errs...)
}

// Main is the cmd/server entry point.
func Main() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 2
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		return 1
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "shutdown failed", "error", err)
		return 1
	}
	return 0
}
