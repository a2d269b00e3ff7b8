// Package orders implements the abjour order engine: dimension derivation,
// pricing, accessory proposals and the fulfillment state machine.
package orders

import "time"

// Status represents the fulfillment lifecycle of an order.
type Status string

const (
	// StatusPending is the entry state for customer-submitted orders.
	StatusPending Status = "PENDING"
	// StatusApproved means staff accepted the order for production.
	StatusApproved Status = "APPROVED"
	// StatusFactoryOrdered means the order was placed with the factory.
	StatusFactoryOrdered Status = "FACTORY_ORDERED"
	// StatusProcessing means the factory is producing; a delivery date is scheduled.
	StatusProcessing Status = "PROCESSING"
	// StatusFactoryShipped means goods left the factory (delivery orders only).
	StatusFactoryShipped Status = "FACTORY_SHIPPED"
	// StatusReadyForDelivery means goods are staged for delivery or pickup.
	StatusReadyForDelivery Status = "READY_FOR_DELIVERY"
	// StatusDelivered is terminal; the customer received the goods.
	StatusDelivered Status = "DELIVERED"
	// StatusRejected is terminal, reachable only from PENDING.
	StatusRejected Status = "REJECTED"
)

// IsValid checks if the status is a known lifecycle value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusFactoryOrdered, StatusProcessing,
		StatusFactoryShipped, StatusReadyForDelivery, StatusDelivered, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further status transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusRejected
}

// Opening is one physical window or door cavity to be fitted.
//
// Geometry carries both representations when available: raw measurements
// (Width/Height in cm) and manufacturing units (CodeLength in meters,
// NumberOfCodes). Manufacturing units are authoritative for costing.
type Opening struct {
	Serial         string   `json:"serial"`
	Width          float64  `json:"width,omitempty"`  // cm, 0 when entered in manufacturing units
	Height         float64  `json:"height,omitempty"` // cm
	CodeLength     float64  `json:"code_length"`      // meters
	NumberOfCodes  int      `json:"number_of_codes"`
	ChannelLength  float64  `json:"channel_length,omitempty"` // meters, only meaningful with accessories
	HasEndCap      bool     `json:"has_end_cap"`
	HasAccessories bool     `json:"has_accessories"`
	Notes          *string  `json:"notes,omitempty"`
}

// Area returns the billable surface of the opening in square meters.
func (o Opening) Area(bladeWidthCm float64) float64 {
	return o.CodeLength * float64(o.NumberOfCodes) * bladeWidthCm / 100
}

// Order is the central aggregate: a customer's set of openings against one
// material, plus fulfillment and billing state.
type Order struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	Name          string `json:"name"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`

	Openings  []Opening `json:"openings"`
	AbjourType string   `json:"abjour_type"`
	MainColor  string   `json:"main_color"`

	// BladeWidth and PricePerSquareMeter are snapshots of the material at
	// order time, decoupled from later catalog changes.
	BladeWidth                    float64  `json:"blade_width"`
	PricePerSquareMeter           float64  `json:"price_per_square_meter"`
	OverriddenPricePerSquareMeter *float64 `json:"overridden_price_per_square_meter,omitempty"`

	// TotalArea and TotalCost are caches; they always equal a full
	// recomputation from Openings and the effective rate.
	TotalArea float64 `json:"total_area"`
	TotalCost float64 `json:"total_cost"`

	Status          Status `json:"status"`
	IsArchived      bool   `json:"is_archived"`
	IsEditRequested bool   `json:"is_edit_requested"`

	HasDelivery     bool     `json:"has_delivery"`
	HasInstallation bool     `json:"has_installation"`
	DeliveryAddress *string  `json:"delivery_address,omitempty"`
	DeliveryCost    float64  `json:"delivery_cost"`

	ScheduledDeliveryDate *time.Time `json:"scheduled_delivery_date,omitempty"`
	ActualDeliveryDate    *time.Time `json:"actual_delivery_date,omitempty"`

	Rating *int    `json:"rating,omitempty"`
	Review *string `json:"review,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveRate returns the admin override when present, else the snapshot rate.
func (o Order) EffectiveRate() float64 {
	if o.OverriddenPricePerSquareMeter != nil {
		return *o.OverriddenPricePerSquareMeter
	}
	return o.PricePerSquareMeter
}

// FinalTotal is the customer-facing amount: goods plus delivery. It is
// derived at display time and never persisted.
func (o Order) FinalTotal() float64 {
	return o.TotalCost + o.DeliveryCost
}
