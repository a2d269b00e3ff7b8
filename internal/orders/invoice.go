package orders

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Invoice is the display-time billing view of an order. The final total is
// always derived from the cached goods total plus the delivery cost; it is
// never persisted as a third cached field.
type Invoice struct {
	OrderID             int64    `json:"order_id"`
	Name                string   `json:"name"`
	TotalArea           float64  `json:"total_area"`
	PricePerSquareMeter float64  `json:"price_per_square_meter"`
	OverriddenRate      *float64 `json:"overridden_rate,omitempty"`
	TotalCost           float64  `json:"total_cost"`
	DeliveryCost        float64  `json:"delivery_cost"`
	FinalTotal          float64  `json:"final_total"`
	FinalTotalDisplay   string   `json:"final_total_display"`
}

var invoicePrinter = message.NewPrinter(language.English)

// BuildInvoice assembles the invoice view for an order.
func BuildInvoice(o Order) Invoice {
	final := o.FinalTotal()
	return Invoice{
		OrderID:             o.ID,
		Name:                o.Name,
		TotalArea:           o.TotalArea,
		PricePerSquareMeter: o.PricePerSquareMeter,
		OverriddenRate:      o.OverriddenPricePerSquareMeter,
		TotalCost:           o.TotalCost,
		DeliveryCost:        o.DeliveryCost,
		FinalTotal:          final,
		FinalTotalDisplay:   invoicePrinter.Sprintf("%.2f", final),
	}
}
