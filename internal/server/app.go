// Package server wires the WealFlow API server together: configuration,
// PostgreSQL, object storage, services and the HTTP transport. It also runs
// the periodic cleanup of expired refresh tokens.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wealflow/wealflow/internal/logging"
	"github.com/wealflow/wealflow/internal/server/auth"
	"github.com/wealflow/wealflow/internal/server/config"
	"github.com/wealflow/wealflow/internal/server/httpapi"
	"github.com/wealflow/wealflow/internal/server/objectstore"
	"github.com/wealflow/wealflow/internal/server/repositories/repomanager"
	"github.com/wealflow/wealflow/internal/server/services"
)

const tokenSweepInterval = time.Hour

// runner is what App runs until shutdown; the HTTP server in production.
type runner interface {
	Run(ctx context.Context) error
}

type tokenSweeper interface {
	SweepRefreshTokens(ctx context.Context) (int64, error)
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	server  runner
	sweeper tokenSweeper
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var store objectstore.Store
	if c.ExportEnabled() {
		s3, err := objectstore.NewS3Store(ctx, objectstore.Options{
			Endpoint: c.S3BaseEndpoint,
			Region:   c.S3Region,
			User:     c.S3RootUser,
			Password: c.S3RootPassword,
			Bucket:   c.S3Bucket,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("object storage init error: %w", err)
		}
		store = s3
	} else {
		logger.Warn(ctx, "S3 bucket not configured, export is disabled")
	}

	us := services.NewUserService(db, rm, auth.NewGoogleVerifier(c.GoogleClientID), c)
	ts := services.NewTransactionService(db, rm)
	es := services.NewExportService(ts, store, c.ExportURLExpiry)

	srv := httpapi.NewServer(httpapi.Options{
		Address:        c.ListenAddr,
		JWTSecret:      c.SecretKey,
		FrontendOrigin: c.FrontendOrigin,
		Cookies: httpapi.CookieOptions{
			Domain:     c.CookieDomain,
			Secure:     c.Production,
			AccessTTL:  c.AccessTokenValidityDuration,
			RefreshTTL: c.RefreshTokenValidityDuration,
		},
	}, logger, us, ts, es)

	return &App{config: c, logger: logger, db: db, server: srv, sweeper: us}, nil
}

// Run blocks until SIGINT/SIGTERM/SIGQUIT or a fatal server error.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(ctx)
	})
	g.Go(func() error {
		app.sweepTokens(ctx, tokenSweepInterval)
		return nil
	})

	err := g.Wait()

	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil {
			app.logger.Error(ctx, "db close failed", "error", cerr)
		}
	}
	app.logger.Info(context.Background(), "App stopped")
	return err
}

func (app *App) sweepTokens(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.sweeper.SweepRefreshTokens(ctx)
			if err != nil {
				app.logger.Error(ctx, "refresh token sweep failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired refresh tokens removed", "count", n)
			}
		}
	}
}
