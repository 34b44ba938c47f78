package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-service/internal/config"
	"github.com/spec-kit/booking-service/internal/observability"
	"github.com/spec-kit/booking-service/internal/persistence"
	"github.com/spec-kit/booking-service/internal/repository"
)

// bootstrap holds the process-wide handles every command starts from.
type bootstrap struct {
	cfg      *config.Config
	logger   *zap.Logger
	postgres *persistence.Postgres
	users    repository.UserRepository
	services repository.ServiceRepository
	bookings repository.BookingRepository
}

func newBootstrap(ctx context.Context) (*bootstrap, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	rt := &bootstrap{cfg: cfg, logger: logger, postgres: pg}
	if pool := pg.PoolHandle(); pool != nil {
		rt.users = repository.NewUserRepository(pool)
		rt.services = repository.NewServiceRepository(pool)
		rt.bookings = repository.NewBookingRepository(pool)
	} else {
		store := repository.NewMemoryStore()
		rt.users = store.Users()
		rt.services = store.Services()
		rt.bookings = store.Bookings()
	}
	return rt, nil
}

func (rt *bootstrap) migrate(ctx context.Context) error {
	return persistence.RunMigrations(ctx, rt.postgres.PoolHandle(), rt.logger)
}

func (rt *bootstrap) close() {
	rt.postgres.Close()
	_ = rt.logger.Sync()
}
