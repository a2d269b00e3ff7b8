package suppliers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// MemoryRepository is an in-memory Repository used by tests.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]Supplier
}

// NewMemoryRepository builds an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, byID: map[int64]Supplier{}}
}

func (r *MemoryRepository) Create(_ context.Context, s Supplier) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.byID[s.ID] = s
	return s.ID, nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (*Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: supplier %d", shared.ErrNotFound, id)
	}
	return &s, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Supplier, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, s Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[s.ID]
	if !ok {
		return fmt.Errorf("%w: supplier %d", shared.ErrNotFound, s.ID)
	}
	s.CreatedAt = cur.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	r.byID[s.ID] = s
	return nil
}
