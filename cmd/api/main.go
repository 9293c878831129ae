package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/loan-service/internal/api/http"
	"github.com/spec-kit/loan-service/internal/api/http/handlers"
	"github.com/spec-kit/loan-service/internal/config"
	"github.com/spec-kit/loan-service/internal/events"
	"github.com/spec-kit/loan-service/internal/lock"
	"github.com/spec-kit/loan-service/internal/observability"
	"github.com/spec-kit/loan-service/internal/persistence"
	"github.com/spec-kit/loan-service/internal/remote"
	"github.com/spec-kit/loan-service/internal/repository"
	"github.com/spec-kit/loan-service/internal/service"
	"github.com/spec-kit/loan-service/internal/worker"
	"github.com/spec-kit/loan-service/internal/workflow"
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

	loanStore := repository.NewLoanRepository(pg.PoolHandle())
	userDirectory := remote.NewUserClient(cfg.Upstreams.UserServiceURL, cfg.Upstreams.RequestTimeout())
	bookCatalog := remote.NewBookClient(cfg.Upstreams.BookServiceURL, cfg.Upstreams.RequestTimeout())

	// Cross-replica serialization needs redis; a single replica can fall back
	// to in-process locking.
	var locker lock.Locker = lock.NewMemoryLocker()
	if err := redis.Ping(ctx); err == nil {
		locker = lock.NewRedisLocker(redis.Client)
	} else {
		logger.Warn("redis unreachable; using in-process per-user locking")
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	reconciliation := service.NewReconciliationService(redis.Client, logger)
	worker.StartReconciliationWorker(reconciliation, dispatcher)

	coordinator := workflow.NewCoordinator(workflow.Dependencies{
		UserDirectory: userDirectory,
		BookCatalog:   bookCatalog,
		LoanStore:     loanStore,
		Locker:        locker,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	loansHandler := handlers.NewLoansHandler(coordinator)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: healthHandler,
		Loans:  loansHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
