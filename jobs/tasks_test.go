package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeContacts struct {
	email string
	phone string
	err   error
}

func (f fakeContacts) Contact(context.Context, int64) (string, string, error) {
	return f.email, f.phone, f.err
}

type fakeStaleSource struct {
	got    time.Time
	orders []StaleOrder
}

func (f *fakeStaleSource) ListStalePending(_ context.Context, olderThan time.Time) ([]StaleOrder, error) {
	f.got = olderThan
	return f.orders, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyCustomerHandler(t *testing.T) {
	handler := NewNotifyCustomerHandler(testLogger(), fakeContacts{email: "rami@example.com"})

	task, err := NewNotifyCustomerTask(NotifyCustomerPayload{
		OrderID:   5,
		OrderName: "Rami Aluminium white #5",
		UserID:    2,
		Event:     "order.approved",
	})
	require.NoError(t, err)
	require.Equal(t, TaskTypeNotifyCustomer, task.Type())
	require.NoError(t, handler(context.Background(), task))
}

func TestNotifyCustomerHandlerBadPayloadSkipsRetry(t *testing.T) {
	handler := NewNotifyCustomerHandler(testLogger(), fakeContacts{})
	task := asynq.NewTask(TaskTypeNotifyCustomer, []byte("not json"))
	err := handler(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestNotifyCustomerHandlerLookupFailureRetries(t *testing.T) {
	lookupErr := errors.New("contact lookup down")
	handler := NewNotifyCustomerHandler(testLogger(), fakeContacts{err: lookupErr})

	task, err := NewNotifyCustomerTask(NotifyCustomerPayload{OrderID: 1, UserID: 2, Event: "order.approved"})
	require.NoError(t, err)

	err = handler(context.Background(), task)
	require.ErrorIs(t, err, lookupErr)
	require.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestStaleOrderScanHandlerCutoff(t *testing.T) {
	src := &fakeStaleSource{orders: []StaleOrder{{ID: 1, Name: "old order"}}}
	handler := NewStaleOrderScanHandler(testLogger(), src, 7*24*time.Hour)

	before := time.Now().UTC().Add(-7 * 24 * time.Hour)
	require.NoError(t, handler(context.Background(), NewStaleOrderScanTask()))
	require.WithinDuration(t, before, src.got, time.Minute)
}
