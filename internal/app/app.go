package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-classic/internal/config"
	"github.com/vancomm/minesweeper-classic/internal/database"
	"github.com/vancomm/minesweeper-classic/internal/middleware"
	"github.com/vancomm/minesweeper-classic/internal/registry"
)

const sweepInterval = time.Minute

type App struct {
	logger     *slog.Logger
	router     *http.ServeMux
	cfg        *config.App
	db         *pgxpool.Pool
	sessions   *registry.Registry
	cookies    *config.Cookies
	ws         *config.WebSocket
	migrations fs.FS
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	return &App{
		logger:     logger,
		router:     http.NewServeMux(),
		migrations: migrations,
	}
}

// Setup reads the configuration and connects to the database when one is
// configured. Without a database the server runs and keeps no records.
func (a *App) Setup(ctx context.Context) error {
	cfg, err := config.NewApp()
	if err != nil {
		return err
	}
	a.cfg = cfg

	db, err := database.ConnectAndMigrate(ctx, a.migrations)
	switch {
	case errors.Is(err, config.ErrNoDatabase):
		a.logger.Warn("no database configured, records are disabled")
	case err != nil:
		return fmt.Errorf("unable to connect to db: %w", err)
	default:
		a.db = db
	}

	jwt, err := config.NewJWT()
	if err != nil {
		return err
	}
	a.cookies = config.NewCookies(jwt)
	a.ws = config.NewWebSocket(cfg.CorsOrigins...)
	a.sessions = registry.New(a.logger, cfg.SessionIdleTTL)

	a.loadRoutes()
	return nil
}

func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if a.cfg.BasePath != "" {
		h = http.StripPrefix(a.cfg.BasePath, h)
	}
	return middleware.Wrap(
		h,
		middleware.Auth(a.logger, a.cookies),
		middleware.Cors(a.cfg.CorsOrigins...),
		middleware.Logging(a.logger),
	)
}

// Start serves until ctx is done, then shuts the server down and stops every
// session.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	if a.db != nil {
		defer a.db.Close()
	}

	server := &http.Server{
		Addr:         a.cfg.Addr,
		Handler:      a.Handler(),
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", a.cfg.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		a.sessions.Run(ctx, sweepInterval)
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")
		sCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return eg.Wait()
}
