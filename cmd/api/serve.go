package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/booking-service/internal/api/http"
	"github.com/spec-kit/booking-service/internal/api/http/handlers"
	"github.com/spec-kit/booking-service/internal/auth"
	"github.com/spec-kit/booking-service/internal/broker"
	"github.com/spec-kit/booking-service/internal/events"
	"github.com/spec-kit/booking-service/internal/observability"
	"github.com/spec-kit/booking-service/internal/persistence"
	"github.com/spec-kit/booking-service/internal/service"
	"github.com/spec-kit/booking-service/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe blocks until ctx is cancelled or the listener fails.
func runServe(ctx context.Context) error {
	rt, err := newBootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	cfg, logger := rt.cfg, rt.logger

	if cfg.Postgres.RunMigrations {
		if err := rt.migrate(ctx); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
			return err
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	var revocations auth.RevocationStore = auth.NoopRevocations{}
	if redis != nil {
		revocations = auth.NewRedisRevocations(redis.Client)
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	var publisher service.EventPublisher
	if cfg.Broker.URL != "" {
		pub, err := broker.NewPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			logger.Warn("event broker unavailable; events stay in-process", zap.Error(err))
		} else {
			defer pub.Close() //nolint:errcheck
			publisher = pub
		}
	}
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, publisher), logger)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    rt.users,
		Revocations: revocations,
		Logger:      logger,
	})
	catalog := service.NewCatalogService(service.CatalogDependencies{
		ServiceRepo: rt.services,
		Dispatcher:  dispatcher,
	})
	bookings := service.NewBookingService(service.BookingDependencies{
		BookingRepo: rt.bookings,
		ServiceRepo: rt.services,
		Dispatcher:  dispatcher,
	})

	metrics := observability.NewMetrics("booking_service")
	app := httptransport.NewApp(cfg.App.Name, logger)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, rt.postgres, redis),
		Auth:           handlers.NewAuthHandler(authService, auth.NewSessionCookies(cfg.Auth.Cookie, cfg.Auth.TokenTTL())),
		Services:       handlers.NewServicesHandler(catalog),
		Bookings:       handlers.NewBookingsHandler(bookings),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), revocations),
		Metrics:        metrics,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		logger.Error("fiber listen", zap.Error(err))
		return err
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(context.Cause(ctx)))
	}
	return app.Shutdown()
}
