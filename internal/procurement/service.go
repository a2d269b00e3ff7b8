package procurement

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abjour-erp/abjour-erp/internal/catalog"
	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// MaterialSink is the catalog integration: receipts restock blade material.
type MaterialSink interface {
	Get(ctx context.Context, name string) (*catalog.Material, error)
	Replenish(ctx context.Context, materialName string, areaM2 float64) error
}

// SupplierSource verifies the supplier a purchase is booked against.
type SupplierSource interface {
	Exists(ctx context.Context, supplierID int64) (bool, error)
}

// AuditPort records purchase mutations.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates the purchase lifecycle.
type Service struct {
	repo      Repository
	materials MaterialSink
	suppliers SupplierSource
	audit     AuditPort
	logger    *slog.Logger
}

// NewService constructs the procurement service.
func NewService(repo Repository, materials MaterialSink, suppliers SupplierSource, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, materials: materials, suppliers: suppliers, audit: audit, logger: logger}
}

// CreateInput describes a new purchase.
type CreateInput struct {
	SupplierID   int64
	MaterialName string
	QuantityM2   float64
	UnitCost     float64
	Note         string
}

// Create books a draft purchase after checking the supplier and material
// actually exist.
func (s *Service) Create(ctx context.Context, actor shared.Actor, in CreateInput) (*Purchase, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins manage purchases", shared.ErrPermissionDenied)
	}
	if in.QuantityM2 <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	}
	if in.UnitCost <= 0 {
		return nil, fmt.Errorf("%w: unit cost must be positive", shared.ErrValidation)
	}
	ok, err := s.suppliers.Exists(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: supplier %d", shared.ErrNotFound, in.SupplierID)
	}
	if _, err := s.materials.Get(ctx, in.MaterialName); err != nil {
		return nil, err
	}

	p := Purchase{
		Number:       newPurchaseNumber(),
		SupplierID:   in.SupplierID,
		MaterialName: in.MaterialName,
		QuantityM2:   in.QuantityM2,
		UnitCost:     in.UnitCost,
		Status:       StatusDraft,
		Note:         in.Note,
	}
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actor, id, "purchase.create")
	return s.repo.Get(ctx, id)
}

// Get returns one purchase.
func (s *Service) Get(ctx context.Context, actor shared.Actor, id int64) (*Purchase, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins view purchases", shared.ErrPermissionDenied)
	}
	return s.repo.Get(ctx, id)
}

// List returns all purchases, newest first.
func (s *Service) List(ctx context.Context, actor shared.Actor) ([]Purchase, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins view purchases", shared.ErrPermissionDenied)
	}
	return s.repo.List(ctx)
}

// MarkOrdered moves a draft purchase to ORDERED.
func (s *Service) MarkOrdered(ctx context.Context, actor shared.Actor, id int64) (*Purchase, error) {
	return s.advance(ctx, actor, id, StatusDraft, StatusOrdered, "purchase.order", func(p *Purchase, now time.Time) {
		p.OrderedAt = &now
	})
}

// Receive moves an ordered purchase to RECEIVED and replenishes the catalog
// stock for the purchased material.
func (s *Service) Receive(ctx context.Context, actor shared.Actor, id int64) (*Purchase, error) {
	p, err := s.advance(ctx, actor, id, StatusOrdered, StatusReceived, "purchase.receive", func(p *Purchase, now time.Time) {
		p.ReceivedAt = &now
	})
	if err != nil {
		return nil, err
	}
	if err := s.materials.Replenish(ctx, p.MaterialName, p.QuantityM2); err != nil {
		// The purchase is already RECEIVED; stock drift is recoverable by an
		// admin adjustment, losing the receipt is not.
		s.logger.Error("replenish after receipt", slog.String("material", p.MaterialName), slog.Any("error", err))
	}
	return p, nil
}

// Cancel voids a purchase that has not been received.
func (s *Service) Cancel(ctx context.Context, actor shared.Actor, id int64) (*Purchase, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins manage purchases", shared.ErrPermissionDenied)
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusDraft && p.Status != StatusOrdered {
		return nil, fmt.Errorf("%w: cannot cancel a %s purchase", shared.ErrInvalidTransition, p.Status)
	}
	from := p.Status
	p.Status = StatusCancelled
	if err := s.repo.Save(ctx, *p, from); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actor, id, "purchase.cancel")
	return s.repo.Get(ctx, id)
}

func (s *Service) advance(ctx context.Context, actor shared.Actor, id int64, from, to Status, action string, apply func(*Purchase, time.Time)) (*Purchase, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins manage purchases", shared.ErrPermissionDenied)
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != from {
		return nil, fmt.Errorf("%w: purchase is %s, expected %s", shared.ErrInvalidTransition, p.Status, from)
	}
	p.Status = to
	apply(p, time.Now().UTC())
	if err := s.repo.Save(ctx, *p, from); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actor, id, action)
	return s.repo.Get(ctx, id)
}

func (s *Service) recordAudit(ctx context.Context, actor shared.Actor, id int64, action string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.UserID,
		Action:   action,
		Entity:   "purchase",
		EntityID: strconv.FormatInt(id, 10),
	}); err != nil {
		s.logger.Warn("audit record", slog.Any("error", err))
	}
}

func newPurchaseNumber() string {
	return "PUR-" + strings.ToUpper(uuid.NewString()[:8])
}
