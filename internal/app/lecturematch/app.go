// Package lecturematch wires the marketplace together: storage, migrations,
// cache, services, router and the HTTP server lifecycle.
package lecturematch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/lecturelink/lecture-match/internal/cache"
	"github.com/lecturelink/lecture-match/internal/config"
	"github.com/lecturelink/lecture-match/internal/lib/jwt"
	"github.com/lecturelink/lecture-match/internal/migrations"
	applicationservice "github.com/lecturelink/lecture-match/internal/services/application"
	authservice "github.com/lecturelink/lecture-match/internal/services/auth"
	postingservice "github.com/lecturelink/lecture-match/internal/services/posting"
	"github.com/lecturelink/lecture-match/internal/storage/repository"
)

// App is the assembled application.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New builds the application from the configuration: opens the database,
// applies migrations, connects the cache and registers all routes.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.SecretKey, cfg.AccessTTL, cfg.RefreshTTL)

	authService := authservice.New(db, jwtMaker, logger)
	postingService := postingservice.New(db, cacheRedis, logger)
	applicationService := applicationservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, postingService, applicationService)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
