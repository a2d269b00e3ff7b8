package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/abjour-erp/abjour-erp/internal/orders"
	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Service provides material masterdata operations and the stock ledger the
// order engine draws from.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(m Material) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: material name is required", shared.ErrValidation)
	}
	if m.BladeWidth <= 0 {
		return fmt.Errorf("%w: blade width must be positive", shared.ErrValidation)
	}
	if m.PricePerSquareMeter <= 0 {
		return fmt.Errorf("%w: price per square meter must be positive", shared.ErrValidation)
	}
	if m.StockM2 < 0 {
		return fmt.Errorf("%w: stock cannot be negative", shared.ErrValidation)
	}
	return nil
}

// Create registers a new material.
func (s *Service) Create(ctx context.Context, m Material) (*Material, error) {
	if err := s.validate(m); err != nil {
		return nil, err
	}
	if _, err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return s.repo.GetByName(ctx, m.Name)
}

// Get returns one material by name.
func (s *Service) Get(ctx context.Context, name string) (*Material, error) {
	return s.repo.GetByName(ctx, name)
}

// List returns all materials ordered by name.
func (s *Service) List(ctx context.Context) ([]Material, error) {
	return s.repo.List(ctx)
}

// Update changes a material's geometry, rate or colors. Stock moves only
// through the ledger operations, never through Update. Existing orders keep
// their snapshot rate.
func (s *Service) Update(ctx context.Context, m Material) (*Material, error) {
	if err := s.validate(m); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.repo.GetByName(ctx, m.Name)
}

// Snapshot implements orders.MaterialSource.
func (s *Service) Snapshot(ctx context.Context, name string) (orders.MaterialSnapshot, error) {
	m, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return orders.MaterialSnapshot{}, err
	}
	return orders.MaterialSnapshot{
		Name:                m.Name,
		BladeWidth:          m.BladeWidth,
		PricePerSquareMeter: m.PricePerSquareMeter,
		Colors:              m.Colors,
	}, nil
}

// Consume draws down stock for an order committed to the factory.
func (s *Service) Consume(ctx context.Context, name string, areaM2 float64) error {
	if areaM2 <= 0 {
		return fmt.Errorf("%w: consumed area must be positive", shared.ErrValidation)
	}
	return s.repo.AdjustStock(ctx, name, -areaM2)
}

// Replenish returns stock, used by procurement receipts and by order
// compensation paths.
func (s *Service) Replenish(ctx context.Context, name string, areaM2 float64) error {
	if areaM2 <= 0 {
		return fmt.Errorf("%w: replenished area must be positive", shared.ErrValidation)
	}
	return s.repo.AdjustStock(ctx, name, areaM2)
}
