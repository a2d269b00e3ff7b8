package procurement

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
	byID   map[int64]Purchase
}

// NewMemoryRepository builds an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, byID: map[int64]Purchase{}}
}

func (r *MemoryRepository) Create(_ context.Context, p Purchase) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.byID[p.ID] = p
	return p.ID, nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (*Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: purchase %d", shared.ErrNotFound, id)
	}
	return &p, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Purchase, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *MemoryRepository) Save(_ context.Context, p Purchase, expected Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[p.ID]
	if !ok {
		return fmt.Errorf("%w: purchase %d", shared.ErrNotFound, p.ID)
	}
	if cur.Status != expected {
		return fmt.Errorf("%w: purchase %d changed status", shared.ErrConflict, p.ID)
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	r.byID[p.ID] = p
	return nil
}
