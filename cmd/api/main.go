package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/cafe-admin-service/internal/api/http"
	"github.com/spec-kit/cafe-admin-service/internal/api/http/handlers"
	"github.com/spec-kit/cafe-admin-service/internal/auth"
	"github.com/spec-kit/cafe-admin-service/internal/config"
	"github.com/spec-kit/cafe-admin-service/internal/domain"
	"github.com/spec-kit/cafe-admin-service/internal/events"
	"github.com/spec-kit/cafe-admin-service/internal/observability"
	"github.com/spec-kit/cafe-admin-service/internal/persistence"
	"github.com/spec-kit/cafe-admin-service/internal/repository"
	"github.com/spec-kit/cafe-admin-service/internal/service"
	"github.com/spec-kit/cafe-admin-service/internal/worker"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	menuRepo := repository.NewMenuRepository(pool)
	categoryRepo := repository.NewMenuCategoryRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(redis.Client)

	if err := ensureInitialAdmin(ctx, cfg, userRepo); err != nil {
		logger.Fatal("failed to bootstrap initial admin", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
	})
	userService := service.NewUserService(userRepo, dispatcher, cfg.Auth.BcryptCost, cfg.InitialAdmin.Username)
	menuService := service.NewMenuService(menuRepo, categoryRepo, dispatcher)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, cfg.Auth.CookieName)
	sessionGuard := auth.SessionGuard(authService.TokenManager(), cfg.Auth.CookieName)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg),
		Users:          handlers.NewUsersHandler(userService),
		Menus:          handlers.NewMenusHandler(menuService),
		MenuCategories: handlers.NewMenuCategoriesHandler(menuService),
		AuthMiddleware: authMiddleware,
		SessionGuard:   sessionGuard,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// ensureInitialAdmin guarantees a superadmin account exists so a fresh
// deployment is reachable. A concurrent duplicate insert is tolerated.
func ensureInitialAdmin(ctx context.Context, cfg *config.Config, users repository.UserRepository) error {
	if cfg.InitialAdmin.Password == "" {
		return nil
	}

	if _, err := users.GetByEmailOrUsername(ctx, cfg.InitialAdmin.Username); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.InitialAdmin.Password, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Email:        cfg.InitialAdmin.Email,
		Username:     cfg.InitialAdmin.Username,
		FullName:     cfg.InitialAdmin.FullName,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		Status:       domain.UserStatusActive,
	}
	if err := users.Create(ctx, admin); err != nil {
		// Another replica may have won the race; the unique index makes
		// that harmless.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil
		}
		return err
	}
	return nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
