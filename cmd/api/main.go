package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/audit"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/store"
	"github.com/spec-kit/helpdesk/internal/store/memory"
	"github.com/spec-kit/helpdesk/internal/worker"
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

	metrics := observability.NewMetrics()

	var st store.Store
	if cfg.Postgres.DSN != "" {
		pg, err := store.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		if cfg.Postgres.RunMigrations {
			if err := pg.RunMigrations(ctx, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		st = pg
	} else {
		logger.Warn("POSTGRES_DSN not provided; using in-memory store")
		st = memory.New()
	}

	redis := store.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	queue := notify.NewQueue(redis.Client, cfg.Notification.QueueKey)
	dispatcher := events.NewInMemoryDispatcher()
	authorizer := auth.NewAuthorizer()

	authService := service.NewAuthService(cfg.Auth, st.Users())
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), authorizer)

	auditLog := audit.NewLog(st, logger)
	fanout := notify.NewFanout(st, queue, logger, metrics)
	fanout.Register(dispatcher)

	pipeline := service.NewPipeline(st, authorizer, dispatcher, logger, metrics)
	ticketService := service.NewTicketService(st, pipeline, authorizer, dispatcher)
	slaService := service.NewSLAService(st, authorizer, redis, logger)

	deliveryWorker := worker.NewDeliveryWorker(queue, logger, cfg.Notification)
	go deliveryWorker.Run(ctx)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(redis, cfg.App.Version),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Notifications:  handlers.NewNotificationsHandler(fanout),
		Audit:          handlers.NewAuditHandler(auditLog),
		SLA:            handlers.NewSLAHandler(slaService),
		Metrics:        handlers.NewMetricsHandler(authorizer, metrics),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
