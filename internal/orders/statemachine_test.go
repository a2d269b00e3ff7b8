package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

var (
	admin    = shared.Actor{UserID: 1, Role: shared.RoleAdmin}
	customer = shared.Actor{UserID: 2, Role: shared.RoleUser}
)

func TestAttemptTransitionRequiresAdmin(t *testing.T) {
	o := &Order{Status: StatusPending}
	_, err := AttemptTransition(o, customer, TransitionRequest{To: StatusApproved})
	require.ErrorIs(t, err, shared.ErrPermissionDenied)
	require.Equal(t, StatusPending, o.Status)
}

func TestAttemptTransitionHappyPathWithDelivery(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	o := &Order{Status: StatusPending, HasDelivery: true}

	effects, err := AttemptTransition(o, admin, TransitionRequest{To: StatusApproved})
	require.NoError(t, err)
	require.Equal(t, EventOrderApproved, effects.Notify)

	effects, err = AttemptTransition(o, admin, TransitionRequest{To: StatusFactoryOrdered})
	require.NoError(t, err)
	require.True(t, effects.ConsumeStock)
	require.Equal(t, EventSentToFactory, effects.Notify)

	effects, err = AttemptTransition(o, admin, TransitionRequest{To: StatusProcessing, LeadDays: 14, Now: now})
	require.NoError(t, err)
	require.Equal(t, EventOrderScheduled, effects.Notify)
	require.NotNil(t, o.ScheduledDeliveryDate)
	require.Equal(t, now.AddDate(0, 0, 14), *o.ScheduledDeliveryDate)

	_, err = AttemptTransition(o, admin, TransitionRequest{To: StatusFactoryShipped})
	require.NoError(t, err)

	_, err = AttemptTransition(o, admin, TransitionRequest{To: StatusReadyForDelivery})
	require.NoError(t, err)

	effects, err = AttemptTransition(o, admin, TransitionRequest{To: StatusDelivered, Now: now})
	require.NoError(t, err)
	require.Equal(t, EventOrderDelivered, effects.Notify)
	require.NotNil(t, o.ActualDeliveryDate)
	require.Equal(t, StatusDelivered, o.Status)
}

func TestAttemptTransitionPickupSkipsShipping(t *testing.T) {
	o := &Order{Status: StatusProcessing, HasDelivery: false}

	// Pickup orders must not pass through FACTORY_SHIPPED.
	_, err := AttemptTransition(o, admin, TransitionRequest{To: StatusFactoryShipped})
	require.ErrorIs(t, err, shared.ErrInvalidTransition)
	require.Equal(t, StatusProcessing, o.Status)

	_, err = AttemptTransition(o, admin, TransitionRequest{To: StatusReadyForDelivery})
	require.NoError(t, err)
	require.Equal(t, StatusReadyForDelivery, o.Status)
}

func TestAttemptTransitionDeliveryCannotSkipShipping(t *testing.T) {
	o := &Order{Status: StatusProcessing, HasDelivery: true}
	_, err := AttemptTransition(o, admin, TransitionRequest{To: StatusReadyForDelivery})
	require.ErrorIs(t, err, shared.ErrInvalidTransition)
	require.Equal(t, StatusProcessing, o.Status)
}

func TestAttemptTransitionRejectIsTerminal(t *testing.T) {
	o := &Order{Status: StatusPending}
	_, err := AttemptTransition(o, admin, TransitionRequest{To: StatusRejected})
	require.NoError(t, err)
	require.Equal(t, StatusRejected, o.Status)

	for _, to := range []Status{StatusApproved, StatusFactoryOrdered, StatusProcessing, StatusDelivered, StatusPending} {
		_, err := AttemptTransition(o, admin, TransitionRequest{To: to})
		require.ErrorIs(t, err, shared.ErrInvalidTransition, "transition out of REJECTED to %s", to)
	}
}

func TestAttemptTransitionDeliveredIsTerminal(t *testing.T) {
	o := &Order{Status: StatusDelivered}
	_, err := AttemptTransition(o, admin, TransitionRequest{To: StatusReadyForDelivery})
	require.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestAttemptTransitionNoSkippingStages(t *testing.T) {
	o := &Order{Status: StatusPending, HasDelivery: true}
	for _, to := range []Status{StatusFactoryOrdered, StatusProcessing, StatusFactoryShipped, StatusReadyForDelivery, StatusDelivered} {
		_, err := AttemptTransition(o, admin, TransitionRequest{To: to})
		require.ErrorIs(t, err, shared.ErrInvalidTransition, "PENDING -> %s", to)
		require.Equal(t, StatusPending, o.Status)
	}
}

func TestAttemptTransitionScheduleNeedsLeadTime(t *testing.T) {
	o := &Order{Status: StatusFactoryOrdered}
	_, err := AttemptTransition(o, admin, TransitionRequest{To: StatusProcessing})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, StatusFactoryOrdered, o.Status)
	require.Nil(t, o.ScheduledDeliveryDate)

	_, err = AttemptTransition(o, admin, TransitionRequest{To: StatusProcessing, LeadDays: -3})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestAttemptTransitionUnknownStatus(t *testing.T) {
	o := &Order{Status: StatusPending}
	_, err := AttemptTransition(o, admin, TransitionRequest{To: Status("LOST")})
	require.ErrorIs(t, err, shared.ErrInvalidTransition)
}
