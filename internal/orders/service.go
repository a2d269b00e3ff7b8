package orders

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// MaterialSnapshot is the slice of a catalog material the order engine needs
// at creation time. Blade width and rate are copied onto the order so later
// catalog changes never reprice existing orders.
type MaterialSnapshot struct {
	Name                string
	BladeWidth          float64
	PricePerSquareMeter float64
	Colors              []string
}

// MaterialSource provides material lookups and stock movements.
type MaterialSource interface {
	Snapshot(ctx context.Context, name string) (MaterialSnapshot, error)
	// Consume draws down stock by the given area and fails when the draw
	// would leave the stock negative.
	Consume(ctx context.Context, name string, areaM2 float64) error
	// Replenish returns stock, used to compensate a failed save after a
	// consume already happened.
	Replenish(ctx context.Context, name string, areaM2 float64) error
}

// Notifier dispatches customer-facing notifications for order events.
// Implementations are expected to be asynchronous; delivery failures must not
// fail the triggering transition.
type Notifier interface {
	NotifyCustomer(ctx context.Context, o Order, event NotifyEvent) error
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates the order engine against its collaborators.
type Service struct {
	repo      Repository
	materials MaterialSource
	notifier  Notifier
	audit     AuditPort
	logger    *slog.Logger
}

// NewService builds a Service. Notifier and audit may be nil.
func NewService(repo Repository, materials MaterialSource, notifier Notifier, audit AuditPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, materials: materials, notifier: notifier, audit: audit, logger: logger}
}

// Create submits a new order. Customer actors open at PENDING; admin actors
// creating on behalf of a customer skip approval and open at FACTORY_ORDERED,
// which consumes material stock immediately.
func (s *Service) Create(ctx context.Context, actor shared.Actor, req CreateOrderRequest) (*Order, error) {
	mat, err := s.materials.Snapshot(ctx, req.AbjourType)
	if err != nil {
		return nil, fmt.Errorf("lookup material: %w", err)
	}
	if len(mat.Colors) > 0 && !slices.Contains(mat.Colors, req.MainColor) {
		return nil, fmt.Errorf("%w: color %q not available for %s", shared.ErrValidation, req.MainColor, mat.Name)
	}

	openings, err := buildOpenings(req.Openings, mat.BladeWidth)
	if err != nil {
		return nil, err
	}

	userID := actor.UserID
	status := StatusPending
	if actor.IsAdmin() {
		if req.OnBehalfOfUserID != nil {
			userID = *req.OnBehalfOfUserID
		}
		status = StatusFactoryOrdered
	} else if req.OnBehalfOfUserID != nil {
		return nil, fmt.Errorf("%w: only admins may create orders on behalf of a customer", shared.ErrPermissionDenied)
	}

	o := Order{
		UserID:              userID,
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		Openings:            openings,
		AbjourType:          mat.Name,
		MainColor:           req.MainColor,
		BladeWidth:          mat.BladeWidth,
		PricePerSquareMeter: mat.PricePerSquareMeter,
		Status:              status,
		HasDelivery:         req.HasDelivery,
		HasInstallation:     req.HasInstallation,
		DeliveryAddress:     req.DeliveryAddress,
		DeliveryCost:        req.DeliveryCost,
	}
	o.RecomputeTotals()
	if req.Name != nil {
		o.Name = *req.Name
	}

	if status == StatusFactoryOrdered {
		if err := s.materials.Consume(ctx, o.AbjourType, o.TotalArea); err != nil {
			return nil, fmt.Errorf("consume stock: %w", err)
		}
	}

	id, err := s.repo.Create(ctx, o)
	if err != nil {
		if status == StatusFactoryOrdered {
			s.compensateStock(ctx, o.AbjourType, o.TotalArea)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	o.ID = id

	if o.Name == "" {
		o.Name = SuggestName(o.CustomerName, o.AbjourType, o.MainColor, id)
		if err := s.repo.Save(ctx, o, o.Status); err != nil {
			s.logger.Warn("set order name", slog.Int64("order_id", id), slog.Any("error", err))
		}
	}

	s.record(ctx, actor, "order:create", id, map[string]any{"status": o.Status, "total_cost": o.TotalCost})
	return s.repo.Get(ctx, id)
}

// Get returns one order. Customers may only read their own.
func (s *Service) Get(ctx context.Context, actor shared.Actor, id int64) (*Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && o.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: order %d belongs to another customer", shared.ErrPermissionDenied, id)
	}
	return o, nil
}

// List returns orders matching the filter. Non-admin actors are always
// scoped to their own orders regardless of the requested filter.
func (s *Service) List(ctx context.Context, actor shared.Actor, req ListOrdersRequest) ([]Order, int, error) {
	if !actor.IsAdmin() {
		req.UserID = &actor.UserID
	}
	return s.repo.List(ctx, req)
}

// Update is the admin edit path. Replacing the opening set re-derives all
// manufacturing quantities and totals; a pending customer edit request is
// considered handled and cleared.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id int64, req UpdateOrderRequest) (*Order, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may edit submitted orders", shared.ErrPermissionDenied)
	}
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: order is %s", shared.ErrInvalidTransition, o.Status)
	}
	prior := o.Status

	if req.Openings != nil {
		openings, err := buildOpenings(*req.Openings, o.BladeWidth)
		if err != nil {
			return nil, err
		}
		o.Openings = openings
	}
	if req.MainColor != nil {
		o.MainColor = *req.MainColor
	}
	if req.HasDelivery != nil {
		o.HasDelivery = *req.HasDelivery
	}
	if req.HasInstallation != nil {
		o.HasInstallation = *req.HasInstallation
	}
	if req.DeliveryAddress != nil {
		o.DeliveryAddress = req.DeliveryAddress
	}
	if req.DeliveryCost != nil {
		o.DeliveryCost = *req.DeliveryCost
	}
	if req.Name != nil {
		o.Name = *req.Name
	}
	o.IsEditRequested = false
	o.RecomputeTotals()

	if err := s.repo.Save(ctx, *o, prior); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "order:update", id, map[string]any{"total_cost": o.TotalCost})
	return s.repo.Get(ctx, id)
}

// Transition attempts a fulfillment status change. The save is a
// compare-and-swap against the status read here; a concurrent transition
// surfaces as shared.ErrConflict with no fields mutated.
func (s *Service) Transition(ctx context.Context, actor shared.Actor, id int64, req TransitionRequest) (*Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	prior := o.Status

	effects, err := AttemptTransition(o, actor, req)
	if err != nil {
		return nil, err
	}

	if effects.ConsumeStock {
		if err := s.materials.Consume(ctx, o.AbjourType, o.TotalArea); err != nil {
			return nil, fmt.Errorf("consume stock: %w", err)
		}
	}
	if err := s.repo.Save(ctx, *o, prior); err != nil {
		if effects.ConsumeStock {
			s.compensateStock(ctx, o.AbjourType, o.TotalArea)
		}
		return nil, err
	}

	if effects.Notify != "" && s.notifier != nil {
		if err := s.notifier.NotifyCustomer(ctx, *o, effects.Notify); err != nil {
			s.logger.Warn("notify customer", slog.Int64("order_id", id), slog.String("event", string(effects.Notify)), slog.Any("error", err))
		}
	}
	s.record(ctx, actor, "order:transition", id, map[string]any{"from": prior, "to": o.Status})
	return s.repo.Get(ctx, id)
}

// SetPriceOverride sets or clears the admin override and recomputes totals
// immediately. The snapshot rate is retained for display and audit.
func (s *Service) SetPriceOverride(ctx context.Context, actor shared.Actor, id int64, rate *float64) (*Order, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may override pricing", shared.ErrPermissionDenied)
	}
	if rate != nil && *rate <= 0 {
		return nil, fmt.Errorf("%w: override rate must be positive", shared.ErrValidation)
	}
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	o.OverriddenPricePerSquareMeter = rate
	o.RecomputeTotals()
	if err := s.repo.Save(ctx, *o, o.Status); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "order:price_override", id, map[string]any{"rate": rate})
	return s.repo.Get(ctx, id)
}

// SetArchived toggles the archive flag. Archival is a visibility filter only
// and is allowed from any status, including terminal ones.
func (s *Service) SetArchived(ctx context.Context, actor shared.Actor, id int64, archived bool) (*Order, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may archive orders", shared.ErrPermissionDenied)
	}
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	o.IsArchived = archived
	if err := s.repo.Save(ctx, *o, o.Status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// RequestEdit flags a PENDING order for admin attention. Only the owning
// customer may request; the flag is advisory and blocks nothing.
func (s *Service) RequestEdit(ctx context.Context, actor shared.Actor, id int64) (*Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: order %d belongs to another customer", shared.ErrPermissionDenied, id)
	}
	if o.Status != StatusPending {
		return nil, fmt.Errorf("%w: edit requests are only accepted while pending", shared.ErrInvalidTransition)
	}
	o.IsEditRequested = true
	if err := s.repo.Save(ctx, *o, o.Status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// SubmitReview records the customer rating after delivery, at most once.
func (s *Service) SubmitReview(ctx context.Context, actor shared.Actor, id int64, req ReviewRequest) (*Order, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", shared.ErrValidation)
	}
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: order %d belongs to another customer", shared.ErrPermissionDenied, id)
	}
	if o.Status != StatusDelivered {
		return nil, fmt.Errorf("%w: reviews open after delivery", shared.ErrInvalidTransition)
	}
	if o.Rating != nil {
		return nil, fmt.Errorf("%w: order %d already reviewed", shared.ErrConflict, id)
	}
	rating := req.Rating
	o.Rating = &rating
	o.Review = req.Review
	if err := s.repo.Save(ctx, *o, o.Status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// ProposeAccessories produces the advisory accessory list for an order.
func (s *Service) ProposeAccessories(ctx context.Context, actor shared.Actor, id int64) ([]AccessoryLine, error) {
	o, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ProposeAccessories(o.Openings, o.BladeWidth, o.HasDelivery, o.HasInstallation), nil
}

func buildOpenings(inputs []OpeningInput, bladeWidthCm float64) ([]Opening, error) {
	openings := make([]Opening, 0, len(inputs))
	for i, in := range inputs {
		op, err := BuildOpening(in, bladeWidthCm)
		if err != nil {
			return nil, fmt.Errorf("opening %d: %w", i+1, err)
		}
		op.Serial = strconv.Itoa(i + 1)
		openings = append(openings, op)
	}
	return openings, nil
}

func (s *Service) compensateStock(ctx context.Context, name string, area float64) {
	if err := s.materials.Replenish(ctx, name, area); err != nil {
		s.logger.Error("replenish stock after failed save", slog.String("material", name), slog.Float64("area", area), slog.Any("error", err))
	}
}

func (s *Service) record(ctx context.Context, actor shared.Actor, action string, orderID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.UserID,
		Action:   action,
		Entity:   "order",
		EntityID: strconv.FormatInt(orderID, 10),
		Meta:     meta,
	})
}
