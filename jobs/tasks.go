package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeNotifyCustomer delivers a customer-facing order event.
	TaskTypeNotifyCustomer = "notify:customer"
	// TaskTypeStaleOrderScan flags orders stuck in PENDING for too long.
	TaskTypeStaleOrderScan = "orders:stale_scan"
)

// NotifyCustomerPayload carries everything the worker needs to message a
// customer about an order event without a database round trip for the order.
type NotifyCustomerPayload struct {
	OrderID               int64      `json:"order_id"`
	OrderName             string     `json:"order_name"`
	UserID                int64      `json:"user_id"`
	Event                 string     `json:"event"`
	ScheduledDeliveryDate *time.Time `json:"scheduled_delivery_date,omitempty"`
}

// NewNotifyCustomerTask constructs an Asynq task for a customer notification.
func NewNotifyCustomerTask(payload NotifyCustomerPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotifyCustomer, data), nil
}

// ContactLookup resolves the customer contact details for a notification.
type ContactLookup interface {
	Contact(ctx context.Context, userID int64) (email, phone string, err error)
}

// NewNotifyCustomerHandler returns the asynq handler for TaskTypeNotifyCustomer.
func NewNotifyCustomerHandler(logger *slog.Logger, contacts ContactLookup) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload NotifyCustomerPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		email, phone, err := contacts.Contact(ctx, payload.UserID)
		if err != nil {
			return err
		}
		// Placeholder channel: delivery over SMS/WhatsApp arrives with the
		// messaging gateway integration.
		logger.Info("notify customer",
			slog.Int64("order_id", payload.OrderID),
			slog.String("order", payload.OrderName),
			slog.String("event", payload.Event),
			slog.String("email", email),
			slog.String("phone", phone),
		)
		return nil
	}
}

// NewStaleOrderScanTask constructs the periodic stale-order scan task.
func NewStaleOrderScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeStaleOrderScan, nil)
}

// StaleOrderSource lists orders pending longer than the cutoff.
type StaleOrderSource interface {
	ListStalePending(ctx context.Context, olderThan time.Time) ([]StaleOrder, error)
}

// StaleOrder is the slim projection the scan reports on.
type StaleOrder struct {
	ID        int64
	Name      string
	UserID    int64
	CreatedAt time.Time
}

// NewStaleOrderScanHandler returns the asynq handler for TaskTypeStaleOrderScan.
// It only reports; approving or rejecting stays a human decision.
func NewStaleOrderScanHandler(logger *slog.Logger, src StaleOrderSource, maxAge time.Duration) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		cutoff := time.Now().UTC().Add(-maxAge)
		stale, err := src.ListStalePending(ctx, cutoff)
		if err != nil {
			return err
		}
		for _, o := range stale {
			logger.Warn("order pending too long",
				slog.Int64("order_id", o.ID),
				slog.String("order", o.Name),
				slog.Time("created_at", o.CreatedAt),
			)
		}
		return nil
	}
}
