// Package notify bridges order events onto the background job queue so the
// HTTP request path never waits on a messaging gateway.
package notify

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/abjour-erp/abjour-erp/internal/orders"
	"github.com/abjour-erp/abjour-erp/jobs"
)

// Enqueuer is the slice of the jobs client the notifier needs.
type Enqueuer interface {
	EnqueueNotifyCustomer(ctx context.Context, payload jobs.NotifyCustomerPayload) (*asynq.TaskInfo, error)
}

// QueueNotifier implements orders.Notifier by enqueuing asynq tasks.
type QueueNotifier struct {
	client Enqueuer
}

// NewQueueNotifier builds a QueueNotifier.
func NewQueueNotifier(client Enqueuer) *QueueNotifier {
	return &QueueNotifier{client: client}
}

// NotifyCustomer enqueues a notification task for the order's owner.
func (n *QueueNotifier) NotifyCustomer(ctx context.Context, o orders.Order, event orders.NotifyEvent) error {
	payload := jobs.NotifyCustomerPayload{
		OrderID:   o.ID,
		OrderName: o.Name,
		UserID:    o.UserID,
		Event:     string(event),
	}
	if o.ScheduledDeliveryDate != nil {
		payload.ScheduledDeliveryDate = o.ScheduledDeliveryDate
	}
	if _, err := n.client.EnqueueNotifyCustomer(ctx, payload); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

var _ orders.Notifier = (*QueueNotifier)(nil)
