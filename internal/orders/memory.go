package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// MemoryRepository is an in-process Repository used by tests and local
// development. It honours the same compare-and-swap contract as the
// PostgreSQL repository: mutations on one order serialize behind a lock and
// Save fails when the stored status drifted from the caller's read.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]Order
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int64]Order)}
}

func (r *MemoryRepository) Create(_ context.Context, o Order) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	o.ID = r.nextID
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	r.byID[o.ID] = cloneOrder(o)
	return o.ID, nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", shared.ErrNotFound, id)
	}
	copied := cloneOrder(o)
	return &copied, nil
}

func (r *MemoryRepository) List(_ context.Context, req ListOrdersRequest) ([]Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []Order{}
	for _, o := range r.byID {
		if req.UserID != nil && o.UserID != *req.UserID {
			continue
		}
		if req.Status != nil && o.Status != *req.Status {
			continue
		}
		if !req.IncludeArchived && o.IsArchived {
			continue
		}
		if req.EditRequested != nil && o.IsEditRequested != *req.EditRequested {
			continue
		}
		if req.CreatedFrom != nil && o.CreatedAt.Before(*req.CreatedFrom) {
			continue
		}
		if req.CreatedTo != nil && o.CreatedAt.After(*req.CreatedTo) {
			continue
		}
		matched = append(matched, cloneOrder(o))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	if req.Offset >= len(matched) {
		return []Order{}, total, nil
	}
	matched = matched[req.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *MemoryRepository) Save(_ context.Context, o Order, expectedStatus Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[o.ID]
	if !ok {
		return fmt.Errorf("%w: order %d", shared.ErrNotFound, o.ID)
	}
	if stored.Status != expectedStatus {
		return fmt.Errorf("%w: order %d status changed since read", shared.ErrConflict, o.ID)
	}
	o.CreatedAt = stored.CreatedAt
	o.UpdatedAt = time.Now()
	r.byID[o.ID] = cloneOrder(o)
	return nil
}

func cloneOrder(o Order) Order {
	copied := o
	copied.Openings = append([]Opening(nil), o.Openings...)
	if o.OverriddenPricePerSquareMeter != nil {
		v := *o.OverriddenPricePerSquareMeter
		copied.OverriddenPricePerSquareMeter = &v
	}
	if o.DeliveryAddress != nil {
		v := *o.DeliveryAddress
		copied.DeliveryAddress = &v
	}
	if o.ScheduledDeliveryDate != nil {
		v := *o.ScheduledDeliveryDate
		copied.ScheduledDeliveryDate = &v
	}
	if o.ActualDeliveryDate != nil {
		v := *o.ActualDeliveryDate
		copied.ActualDeliveryDate = &v
	}
	if o.Rating != nil {
		v := *o.Rating
		copied.Rating = &v
	}
	if o.Review != nil {
		v := *o.Review
		copied.Review = &v
	}
	return copied
}
