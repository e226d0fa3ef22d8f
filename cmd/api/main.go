package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/loanworks/loan-service/internal/api/http"
	"github.com/loanworks/loan-service/internal/api/http/handlers"
	"github.com/loanworks/loan-service/internal/auth"
	"github.com/loanworks/loan-service/internal/config"
	"github.com/loanworks/loan-service/internal/events"
	"github.com/loanworks/loan-service/internal/observability"
	"github.com/loanworks/loan-service/internal/persistence"
	"github.com/loanworks/loan-service/internal/repository"
	"github.com/loanworks/loan-service/internal/service"
	"github.com/loanworks/loan-service/internal/worker"
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

	pool := pg.PoolHandle()
	if pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisStore := persistence.NewRedis(cfg.Redis, logger)
	defer redisStore.Close()

	var (
		userRepo         repository.UserRepository
		loanRepo         repository.LoanRepository
		paymentRepo      repository.PaymentRepository
		cibilRepo        repository.CibilRepository
		notificationRepo repository.NotificationRepository
		jobRepo          repository.JobRepository
	)
	if pool != nil {
		userRepo = repository.NewUserRepository(pool)
		loanRepo = repository.NewLoanRepository(pool)
		paymentRepo = repository.NewPaymentRepository(pool)
		cibilRepo = repository.NewCibilRepository(pool)
		notificationRepo = repository.NewNotificationRepository(pool)
		jobRepo = repository.NewJobRepository(pool)
	} else {
		mem := repository.NewMemory()
		userRepo = mem.Users()
		loanRepo = mem.Loans()
		paymentRepo = mem.Payments()
		cibilRepo = mem.Cibil()
		notificationRepo = mem.Notifications()
		jobRepo = mem.Jobs()
	}

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	loanService := service.NewLoanService(service.LoanDependencies{
		LoanRepo:   loanRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	paymentService := service.NewPaymentService(service.PaymentDependencies{
		PaymentRepo: paymentRepo,
		LoanRepo:    loanRepo,
		Dispatcher:  dispatcher,
	})
	cibilService := service.NewCibilService(service.CibilDependencies{
		CibilRepo:  cibilRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	reportingService := service.NewReportingService(service.ReportingDependencies{
		UserRepo:         userRepo,
		LoanRepo:         loanRepo,
		PaymentRepo:      paymentRepo,
		NotificationRepo: notificationRepo,
		Cache:            redisStore.ClientHandle(),
		CacheTTL:         cfg.Reporting.StatsCacheTTL(),
		Logger:           logger,
	})
	notificationService := service.NewNotificationService(notificationRepo, dispatcher, logger)
	jobService := service.NewJobService(jobRepo)

	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redisStore),
		Users:          handlers.NewUsersHandler(authService),
		Loans:          handlers.NewLoansHandler(loanService),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		Cibil:          handlers.NewCibilHandler(cibilService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Jobs:           handlers.NewJobsHandler(jobService),
		Admin:          handlers.NewAdminHandler(reportingService, loanService, authService),
		AuthMiddleware: authMiddleware,
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
