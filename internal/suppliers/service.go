package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Service provides supplier masterdata operations.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(sup Supplier) error {
	if strings.TrimSpace(sup.Code) == "" {
		return fmt.Errorf("%w: supplier code is required", shared.ErrValidation)
	}
	if strings.TrimSpace(sup.Name) == "" {
		return fmt.Errorf("%w: supplier name is required", shared.ErrValidation)
	}
	return nil
}

// Create registers a new supplier.
func (s *Service) Create(ctx context.Context, sup Supplier) (*Supplier, error) {
	if err := s.validate(sup); err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, sup)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns one supplier.
func (s *Service) Get(ctx context.Context, id int64) (*Supplier, error) {
	return s.repo.Get(ctx, id)
}

// List returns all suppliers ordered by name.
func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.repo.List(ctx)
}

// Exists reports whether a supplier id is known.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update changes supplier contact data.
func (s *Service) Update(ctx context.Context, sup Supplier) (*Supplier, error) {
	if err := s.validate(sup); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, sup.ID)
}
