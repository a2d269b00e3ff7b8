package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// MemoryRepository is the in-process Repository used by tests and local
// development. Stock adjustments serialize behind a lock, matching the
// row-lock semantics of the PostgreSQL repository.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]Material
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byName: make(map[string]Material)}
}

func (r *MemoryRepository) Create(_ context.Context, m Material) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[m.Name]; exists {
		return 0, ErrDuplicateName
	}
	r.nextID++
	m.ID = r.nextID
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	r.byName[m.Name] = cloneMaterial(m)
	return m.ID, nil
}

func (r *MemoryRepository) GetByName(_ context.Context, name string) (*Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: material %q", shared.ErrNotFound, name)
	}
	copied := cloneMaterial(m)
	return &copied, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Material, 0, len(r.byName))
	for _, m := range r.byName {
		result = append(result, cloneMaterial(m))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *MemoryRepository) Update(_ context.Context, m Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byName[m.Name]
	if !ok {
		return fmt.Errorf("%w: material %q", shared.ErrNotFound, m.Name)
	}
	m.ID = stored.ID
	m.StockM2 = stored.StockM2
	m.CreatedAt = stored.CreatedAt
	m.UpdatedAt = time.Now()
	r.byName[m.Name] = cloneMaterial(m)
	return nil
}

func (r *MemoryRepository) AdjustStock(_ context.Context, name string, deltaM2 float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: material %q", shared.ErrNotFound, name)
	}
	newStock := m.StockM2 + deltaM2
	if newStock < 0 {
		return fmt.Errorf("%w: %s has %.2f m2, need %.2f m2", ErrInsufficientStock, name, m.StockM2, -deltaM2)
	}
	m.StockM2 = newStock
	m.UpdatedAt = time.Now()
	r.byName[name] = m
	return nil
}

func cloneMaterial(m Material) Material {
	copied := m
	copied.Colors = append([]string(nil), m.Colors...)
	return copied
}
