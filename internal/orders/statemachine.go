package orders

import (
	"fmt"
	"time"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// NotifyEvent names a customer-facing notification triggered by a transition.
type NotifyEvent string

const (
	EventOrderApproved  NotifyEvent = "order.approved"
	EventOrderRejected  NotifyEvent = "order.rejected"
	EventSentToFactory  NotifyEvent = "order.sent_to_factory"
	EventOrderScheduled NotifyEvent = "order.scheduled"
	EventOrderDelivered NotifyEvent = "order.delivered"
)

// TransitionRequest carries the desired target status and the parameters
// individual transitions need.
type TransitionRequest struct {
	To Status
	// LeadDays is the admin-supplied production lead time, required for the
	// FACTORY_ORDERED -> PROCESSING transition.
	LeadDays int
	// Now is the transition clock; the zero value means time.Now().
	Now time.Time
}

// Effects reports the side effects a successful transition authorizes.
// Persisting the order and dispatching notifications stay with the caller.
type Effects struct {
	Notify NotifyEvent // empty when the transition is silent
	// ConsumeStock is set when the transition commits the order to the
	// factory and material stock must be drawn down by TotalArea.
	ConsumeStock bool
}

// transition is one row of the fulfillment table.
type transition struct {
	from  Status
	to    Status
	guard func(*Order, TransitionRequest) error
	apply func(*Order, TransitionRequest) Effects
}

// transitionTable is the explicit fulfillment state machine. Every forward
// transition requires the admin role; customers only read status or use the
// dedicated edit-request and review paths.
var transitionTable = []transition{
	{
		from: StatusPending, to: StatusApproved,
		apply: func(o *Order, _ TransitionRequest) Effects {
			return Effects{Notify: EventOrderApproved}
		},
	},
	{
		from: StatusPending, to: StatusRejected,
		apply: func(o *Order, _ TransitionRequest) Effects {
			return Effects{Notify: EventOrderRejected}
		},
	},
	{
		from: StatusApproved, to: StatusFactoryOrdered,
		apply: func(o *Order, _ TransitionRequest) Effects {
			return Effects{Notify: EventSentToFactory, ConsumeStock: true}
		},
	},
	{
		from: StatusFactoryOrdered, to: StatusProcessing,
		guard: func(_ *Order, req TransitionRequest) error {
			if req.LeadDays < 1 {
				return fmt.Errorf("%w: scheduling requires a positive lead time in days", shared.ErrValidation)
			}
			return nil
		},
		apply: func(o *Order, req TransitionRequest) Effects {
			scheduled := transitionTime(req).AddDate(0, 0, req.LeadDays)
			o.ScheduledDeliveryDate = &scheduled
			return Effects{Notify: EventOrderScheduled}
		},
	},
	{
		from: StatusProcessing, to: StatusFactoryShipped,
		guard: func(o *Order, _ TransitionRequest) error {
			if !o.HasDelivery {
				return fmt.Errorf("%w: pickup orders skip the shipping stage", shared.ErrInvalidTransition)
			}
			return nil
		},
	},
	{
		from: StatusProcessing, to: StatusReadyForDelivery,
		guard: func(o *Order, _ TransitionRequest) error {
			if o.HasDelivery {
				return fmt.Errorf("%w: delivery orders must pass through FACTORY_SHIPPED", shared.ErrInvalidTransition)
			}
			return nil
		},
	},
	{
		from: StatusFactoryShipped, to: StatusReadyForDelivery,
	},
	{
		from: StatusReadyForDelivery, to: StatusDelivered,
		apply: func(o *Order, req TransitionRequest) Effects {
			delivered := transitionTime(req)
			o.ActualDeliveryDate = &delivered
			return Effects{Notify: EventOrderDelivered}
		},
	},
}

func transitionTime(req TransitionRequest) time.Time {
	if req.Now.IsZero() {
		return time.Now()
	}
	return req.Now
}

// AttemptTransition moves the order to the requested status, enforcing role,
// table membership and per-transition guards before any field is mutated. On
// failure the order is left untouched and an error of kind ErrPermissionDenied,
// ErrInvalidTransition or ErrValidation is returned.
func AttemptTransition(o *Order, actor shared.Actor, req TransitionRequest) (Effects, error) {
	if !actor.IsAdmin() {
		return Effects{}, fmt.Errorf("%w: only admins may change order status", shared.ErrPermissionDenied)
	}
	if !req.To.IsValid() {
		return Effects{}, fmt.Errorf("%w: unknown status %q", shared.ErrInvalidTransition, req.To)
	}
	if o.Status.IsTerminal() {
		return Effects{}, fmt.Errorf("%w: order is %s", shared.ErrInvalidTransition, o.Status)
	}
	for _, t := range transitionTable {
		if t.from != o.Status || t.to != req.To {
			continue
		}
		if t.guard != nil {
			if err := t.guard(o, req); err != nil {
				return Effects{}, err
			}
		}
		o.Status = t.to
		if t.apply != nil {
			return t.apply(o, req), nil
		}
		return Effects{}, nil
	}
	return Effects{}, fmt.Errorf("%w: %s -> %s", shared.ErrInvalidTransition, o.Status, req.To)
}
