package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/cafe-admin-service/internal/config"
	"github.com/spec-kit/cafe-admin-service/internal/observability"
	"github.com/spec-kit/cafe-admin-service/internal/persistence"
	"github.com/spec-kit/cafe-admin-service/internal/repository"
	"github.com/spec-kit/cafe-admin-service/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pool := pg.PoolHandle()
	deps := seed.Deps{
		Users:      repository.NewUserRepository(pool),
		Menus:      repository.NewMenuRepository(pool),
		Categories: repository.NewMenuCategoryRepository(pool),
	}

	if err := seed.Run(ctx, cfg, deps, logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seeding complete")
}
