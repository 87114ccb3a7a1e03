package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/rentalfleet-backend/api/routes"
	"github.com/angelmondragon/rentalfleet-backend/internal/assignment"
	"github.com/angelmondragon/rentalfleet-backend/internal/autoassign"
	"github.com/angelmondragon/rentalfleet-backend/internal/fulfilments"
	"github.com/angelmondragon/rentalfleet-backend/internal/inventory"
	"github.com/angelmondragon/rentalfleet-backend/internal/purchaseorders"
	"github.com/angelmondragon/rentalfleet-backend/internal/reservations"
	"github.com/angelmondragon/rentalfleet-backend/pkg/config"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db"
	"github.com/angelmondragon/rentalfleet-backend/pkg/instance"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
	"github.com/angelmondragon/rentalfleet-backend/pkg/metrics"
	"github.com/angelmondragon/rentalfleet-backend/pkg/migrate"
	"github.com/angelmondragon/rentalfleet-backend/pkg/outbox"
	"github.com/angelmondragon/rentalfleet-backend/pkg/redis"
	"github.com/angelmondragon/rentalfleet-backend/pkg/tracing"
)

var version = "dev"

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Version:     version,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, "rentalfleet-api", version, cfg.Tracing)
	if err != nil {
		logg.Error(ctx, "failed to set up tracing", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logg.Error(context.Background(), "error flushing traces", err)
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// without redis the API serves mutations without Idempotency-Key replay
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		registry.MustRegister(redis.NewPoolCollector(redisClient))
	} else {
		logg.Warn(ctx, "redis not configured, idempotency replay disabled")
	}
	assignmentMetrics := metrics.NewAssignmentMetrics(registry)

	conn := dbClient.DB()
	outboxService := outbox.NewService(outbox.NewRepository(conn), logg)
	fulfilmentRepo := fulfilments.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)
	reservationRepo := reservations.NewRepository(conn)

	fulfilmentService, err := fulfilments.NewService(fulfilmentRepo)
	if err != nil {
		logg.Error(ctx, "failed to create fulfilment service", err)
		os.Exit(1)
	}

	assignmentService, err := assignment.NewService(assignment.ServiceParams{
		Tx:           dbClient,
		Fulfilments:  fulfilmentRepo,
		Inventory:    inventoryRepo,
		Reservations: reservationRepo,
		Outbox:       outboxService,
		Metrics:      assignmentMetrics,
		Logger:       logg,
		MaxAttempts:  cfg.Assignment.MaxAttempts,
		RetryBackoff: cfg.Assignment.RetryBackoff,
	})
	if err != nil {
		logg.Error(ctx, "failed to create assignment service", err)
		os.Exit(1)
	}

	reservationService, err := reservations.NewService(reservationRepo)
	if err != nil {
		logg.Error(ctx, "failed to create reservation service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventoryRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(ctx, "failed to create inventory service", err)
		os.Exit(1)
	}

	matcher, err := autoassign.NewMatcher(assignmentService, fulfilmentRepo, assignmentMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create auto-assignment matcher", err)
		os.Exit(1)
	}

	purchaseOrderService, err := purchaseorders.NewService(
		purchaseorders.NewRepository(conn),
		inventoryRepo,
		dbClient,
		outboxService,
		matcher,
		logg,
	)
	if err != nil {
		logg.Error(ctx, "failed to create purchase order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"version":  version,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			fulfilmentService,
			assignmentService,
			reservationService,
			inventoryService,
			purchaseOrderService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
