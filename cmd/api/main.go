package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httpapi "github.com/JoshyLop/intranet-tickets-api/internal/api/http"
	"github.com/JoshyLop/intranet-tickets-api/internal/api/http/handlers"
	"github.com/JoshyLop/intranet-tickets-api/internal/auth"
	"github.com/JoshyLop/intranet-tickets-api/internal/config"
	"github.com/JoshyLop/intranet-tickets-api/internal/events"
	"github.com/JoshyLop/intranet-tickets-api/internal/observability"
	"github.com/JoshyLop/intranet-tickets-api/internal/persistence"
	"github.com/JoshyLop/intranet-tickets-api/internal/repository"
	"github.com/JoshyLop/intranet-tickets-api/internal/service"
	"github.com/JoshyLop/intranet-tickets-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := postgres.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	profileService := service.NewProfileService(profileRepo, dispatcher)
	authService := service.NewAuthService(*cfg, userRepo, profileService)
	directoryService := service.NewDirectoryService(userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: commentRepo,
		TicketRepo:  ticketRepo,
		Dispatcher:  dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httpapi.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httpapi.RegisterRoutes(httpapi.RouteConfig{
		App:            app,
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
		Health:         handlers.NewHealthHandler(postgres, redis, cfg.App.Version),
		Users:          handlers.NewUserHandler(authService, directoryService),
		Tickets:        handlers.NewTicketHandler(ticketService),
		Comments:       handlers.NewCommentHandler(commentService),
		Profiles:       handlers.NewProfileHandler(profileService),
	})

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
