package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/abjour-erp/abjour-erp/internal/app"
	"github.com/abjour-erp/abjour-erp/internal/orders"
	"github.com/abjour-erp/abjour-erp/internal/platform/db"
	"github.com/abjour-erp/abjour-erp/internal/users"
	"github.com/abjour-erp/abjour-erp/jobs"
)

// contactLookup maps account ids to contact details for notifications.
type contactLookup struct {
	service *users.Service
}

func (c contactLookup) Contact(ctx context.Context, userID int64) (string, string, error) {
	u, err := c.service.Get(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return u.Email, u.Phone, nil
}

// staleOrderSource projects pending orders older than the cutoff.
type staleOrderSource struct {
	repo orders.Repository
}

func (s staleOrderSource) ListStalePending(ctx context.Context, olderThan time.Time) ([]jobs.StaleOrder, error) {
	pending := orders.StatusPending
	list, _, err := s.repo.List(ctx, orders.ListOrdersRequest{
		Status:    &pending,
		CreatedTo: &olderThan,
		Limit:     1000,
	})
	if err != nil {
		return nil, err
	}
	out := make([]jobs.StaleOrder, 0, len(list))
	for _, o := range list {
		out = append(out, jobs.StaleOrder{
			ID:        o.ID,
			Name:      o.Name,
			UserID:    o.UserID,
			CreatedAt: o.CreatedAt,
		})
	}
	return out, nil
}

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

	usersService := users.NewService(users.NewRepository(pool))
	ordersRepo := orders.NewRepository(pool)

	notifyHandler := jobs.NewNotifyCustomerHandler(logger, contactLookup{service: usersService})
	staleScanHandler := jobs.NewStaleOrderScanHandler(logger, staleOrderSource{repo: ordersRepo}, cfg.StalePendingAfter)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeNotifyCustomer, Handler: notifyHandler},
			{Type: jobs.TaskTypeStaleOrderScan, Handler: staleScanHandler},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.StaleScanCron, Task: jobs.NewStaleOrderScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
