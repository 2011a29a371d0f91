package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticketdesk/internal/api/http"
	"github.com/spec-kit/ticketdesk/internal/api/http/handlers"
	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/observability"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/service"
	"github.com/spec-kit/ticketdesk/internal/storage"
	"github.com/spec-kit/ticketdesk/internal/view"
	"github.com/spec-kit/ticketdesk/internal/worker"
	"github.com/spec-kit/ticketdesk/internal/workspace"
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

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	adapter := storage.NewAdapter(store, logger)
	userRepo := repository.NewUserRepository(adapter)
	sessionRepo := repository.NewSessionRepository(adapter)
	ticketRepo := repository.NewTicketRepository(adapter)

	workspaces := workspace.NewRegistry(cfg.Notification.DismissAfter())
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	renderer := view.NewRenderer()

	notificationService := service.NewNotificationService(dispatcher, workspaces, logger)
	worker.StartNotificationWorker(notificationService, logger)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Workspaces:  workspaces,
		Dispatcher:  dispatcher,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Workspaces: workspaces,
		Renderer:   renderer,
		Dispatcher: dispatcher,
	})
	pageService := service.NewPageService(authService, ticketService)

	janitor, err := worker.NewJanitor(workspaces, cfg.Workspace.SweepSchedule, cfg.Workspace.IdleTimeout(), logger)
	if err != nil {
		logger.Fatal("failed to schedule workspace janitor", zap.Error(err))
	}
	janitor.Start()
	defer janitor.Stop()

	tokens := auth.NewTokenManager(cfg.Auth.ClientSecret, cfg.Auth.ClientTokenTTLMinutes)
	clientMiddleware := auth.NewClientMiddleware(tokens, cfg.Auth.ClientCookieName, cfg.Auth.ClientCookieSecureOnly, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Storage.Driver, store, metrics),
		Pages:         handlers.NewPagesHandler(cfg.App.Name, cfg.App.Version, pageService),
		Auth:          handlers.NewAuthHandler(authService),
		Tickets:       handlers.NewTicketsHandler(ticketService, renderer),
		Notifications: handlers.NewNotificationsHandler(notificationService),
		Client:        clientMiddleware,
		Sessions:      authService,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("storage", cfg.Storage.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
