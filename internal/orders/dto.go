package orders

import "time"

// CreateOrderRequest submits a new order. Customers create for themselves;
// admins may create on behalf of a customer, which skips the approval stage.
type CreateOrderRequest struct {
	CustomerName    string         `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string         `json:"customer_phone" validate:"required,max=30"`
	AbjourType      string         `json:"abjour_type" validate:"required,max=100"`
	MainColor       string         `json:"main_color" validate:"required,max=50"`
	Openings        []OpeningInput `json:"openings" validate:"required,min=1,dive"`
	HasDelivery     bool           `json:"has_delivery"`
	HasInstallation bool           `json:"has_installation"`
	DeliveryAddress *string        `json:"delivery_address,omitempty" validate:"omitempty,max=500"`
	DeliveryCost    float64        `json:"delivery_cost" validate:"gte=0"`
	Name            *string        `json:"name,omitempty" validate:"omitempty,max=200"`
	// OnBehalfOfUserID is honoured for admin actors only.
	OnBehalfOfUserID *int64 `json:"on_behalf_of_user_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateOrderRequest is the admin edit path: replacing the opening set
// re-derives all totals and clears a pending edit request.
type UpdateOrderRequest struct {
	Openings        *[]OpeningInput `json:"openings,omitempty" validate:"omitempty,min=1,dive"`
	MainColor       *string         `json:"main_color,omitempty" validate:"omitempty,max=50"`
	HasDelivery     *bool           `json:"has_delivery,omitempty"`
	HasInstallation *bool           `json:"has_installation,omitempty"`
	DeliveryAddress *string         `json:"delivery_address,omitempty" validate:"omitempty,max=500"`
	DeliveryCost    *float64        `json:"delivery_cost,omitempty" validate:"omitempty,gte=0"`
	Name            *string         `json:"name,omitempty" validate:"omitempty,max=200"`
}

// PriceOverrideRequest sets or clears the admin price override. A nil rate
// clears the override and restores the snapshot rate.
type PriceOverrideRequest struct {
	PricePerSquareMeter *float64 `json:"price_per_square_meter,omitempty" validate:"omitempty,gt=0"`
}

// ScheduleRequest supplies the production lead time when moving an order from
// FACTORY_ORDERED to PROCESSING.
type ScheduleRequest struct {
	LeadDays int `json:"lead_days" validate:"required,gt=0"`
}

// ReviewRequest is the one-shot customer rating after delivery.
type ReviewRequest struct {
	Rating int     `json:"rating" validate:"required,gte=1,lte=5"`
	Review *string `json:"review,omitempty" validate:"omitempty,max=2000"`
}

// ListOrdersRequest filters order listings.
type ListOrdersRequest struct {
	UserID          *int64     `json:"user_id,omitempty"`
	Status          *Status    `json:"status,omitempty"`
	IncludeArchived bool       `json:"include_archived"`
	EditRequested   *bool      `json:"edit_requested,omitempty"`
	CreatedFrom     *time.Time `json:"created_from,omitempty"`
	CreatedTo       *time.Time `json:"created_to,omitempty"`
	Limit           int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset          int        `json:"offset" validate:"gte=0"`
}

// ListOrdersResponse is the API shape for listings.
type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}
