package orders

// Totals aggregates an order's openings into billable quantities.
type Totals struct {
	TotalArea float64 // square meters
	TotalCost float64
}

// ComputeTotals sums the billable area of all openings and prices it at the
// effective rate (override when non-nil, else pricePerSquareMeter). The
// computation is a full pass over the openings on every call; it is
// idempotent and never incrementally patched.
func ComputeTotals(openings []Opening, bladeWidthCm, pricePerSquareMeter float64, override *float64) Totals {
	var area float64
	for _, op := range openings {
		area += op.Area(bladeWidthCm)
	}
	rate := pricePerSquareMeter
	if override != nil {
		rate = *override
	}
	return Totals{
		TotalArea: area,
		TotalCost: area * rate,
	}
}

// RecomputeTotals refreshes the cached TotalArea/TotalCost fields from the
// current openings and effective rate. Called on every mutation of the
// openings or the price override.
func (o *Order) RecomputeTotals() {
	t := ComputeTotals(o.Openings, o.BladeWidth, o.PricePerSquareMeter, o.OverriddenPricePerSquareMeter)
	o.TotalArea = t.TotalArea
	o.TotalCost = t.TotalCost
}
