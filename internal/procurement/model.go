package procurement

import "time"

// Purchase lifecycle statuses.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusOrdered   Status = "ORDERED"
	StatusReceived  Status = "RECEIVED"
	StatusCancelled Status = "CANCELLED"
)

// Purchase is a factory order for raw blade material, tracked per material
// so that receipt can replenish the catalog stock it was bought for.
type Purchase struct {
	ID           int64      `json:"id"`
	Number       string     `json:"number"`
	SupplierID   int64      `json:"supplier_id"`
	MaterialName string     `json:"material_name"`
	QuantityM2   float64    `json:"quantity_m2"`
	UnitCost     float64    `json:"unit_cost"`
	Status       Status     `json:"status"`
	Note         string     `json:"note,omitempty"`
	OrderedAt    *time.Time `json:"ordered_at,omitempty"`
	ReceivedAt   *time.Time `json:"received_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Total returns the purchase cost.
func (p Purchase) Total() float64 {
	return p.QuantityM2 * p.UnitCost
}
