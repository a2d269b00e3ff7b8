package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/abjour-erp/abjour-erp/internal/app"
	"github.com/abjour-erp/abjour-erp/internal/auth"
	"github.com/abjour-erp/abjour-erp/internal/catalog"
	"github.com/abjour-erp/abjour-erp/internal/notify"
	"github.com/abjour-erp/abjour-erp/internal/observability"
	"github.com/abjour-erp/abjour-erp/internal/orders"
	"github.com/abjour-erp/abjour-erp/internal/platform/cache"
	"github.com/abjour-erp/abjour-erp/internal/platform/db"
	"github.com/abjour-erp/abjour-erp/internal/procurement"
	"github.com/abjour-erp/abjour-erp/internal/shared"
	"github.com/abjour-erp/abjour-erp/internal/suppliers"
	"github.com/abjour-erp/abjour-erp/internal/users"
	"github.com/abjour-erp/abjour-erp/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	validate := validator.New()
	authz := shared.Authz{Logger: logger}
	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(pool)

	sessions := auth.NewSessionStore(redisClient, cfg.SessionTTL)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, validate, authz)
	authHandler := auth.NewHandler(logger, usersService, sessions, validate)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService, validate, authz)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	notifier := notify.NewQueueNotifier(jobsClient)

	ordersRepo := orders.NewRepository(pool)
	ordersService := orders.NewService(ordersRepo, catalogService, notifier, auditLogger, logger)
	ordersHandler := orders.NewHandler(logger, ordersService, validate, authz, metrics)

	suppliersRepo := suppliers.NewRepository(pool)
	suppliersService := suppliers.NewService(suppliersRepo)
	suppliersHandler := suppliers.NewHandler(logger, suppliersService, validate, authz)

	procurementRepo := procurement.NewRepository(pool)
	procurementService := procurement.NewService(procurementRepo, catalogService, suppliersService, auditLogger, logger)
	procurementHandler := procurement.NewHandler(logger, procurementService, validate, authz)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Sessions:           sessions,
		AuthHandler:        authHandler,
		OrdersHandler:      ordersHandler,
		CatalogHandler:     catalogHandler,
		SuppliersHandler:   suppliersHandler,
		ProcurementHandler: procurementHandler,
		UsersHandler:       usersHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
