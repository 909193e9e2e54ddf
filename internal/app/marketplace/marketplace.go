// Package marketplace собирает и запускает HTTP-приложение маркетплейса курсов.
package marketplace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/course-marketplace/internal/cache"
	"github.com/magabrotheeeer/course-marketplace/internal/config"
	"github.com/magabrotheeeer/course-marketplace/internal/events"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/course-marketplace/internal/migrations"
	authservice "github.com/magabrotheeeer/course-marketplace/internal/services/auth"
	contentservice "github.com/magabrotheeeer/course-marketplace/internal/services/content"
	courseservice "github.com/magabrotheeeer/course-marketplace/internal/services/course"
	orderservice "github.com/magabrotheeeer/course-marketplace/internal/services/order"
	settingsservice "github.com/magabrotheeeer/course-marketplace/internal/services/settings"
	userservice "github.com/magabrotheeeer/course-marketplace/internal/services/user"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

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

	// Пустой адрес брокера отключает публикацию событий заказов.
	var publisher orderservice.EventPublisher
	if cfg.AMQPAddress != "" {
		conn, err := events.Connect(cfg.AMQPAddress, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := events.SetupChannel(conn, events.OrderQueues())
		if err != nil {
			return nil, err
		}
		publisher = events.NewPublisher(ch)
	} else {
		logger.Warn("amqp address is empty, order events are disabled")
	}

	jwtMaker := jwt.NewMaker(cfg.SecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	orderService := orderservice.New(db, publisher, cacheRedis, logger, cfg.RevenueOnCompletion)
	courseService := courseservice.New(db, cacheRedis, logger)
	contentService := contentservice.New(db, logger)
	userService := userservice.New(db, logger)
	settingsService := settingsservice.New(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db,
		authService, orderService, courseService, contentService, userService, settingsService)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

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
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database connection", sl.Err(closeErr))
		}
		return err
	}
}
