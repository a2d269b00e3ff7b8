package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildInvoice(t *testing.T) {
	o := Order{
		ID:                  9,
		Name:                "Rami Aluminium white #9",
		Openings:            []Opening{{CodeLength: 2.5, NumberOfCodes: 30}},
		BladeWidth:          6.0,
		PricePerSquareMeter: 1200,
		DeliveryCost:        150,
	}
	o.RecomputeTotals()

	inv := BuildInvoice(o)
	require.Equal(t, int64(9), inv.OrderID)
	require.InDelta(t, 4.5, inv.TotalArea, 1e-9)
	require.InDelta(t, 5400, inv.TotalCost, 1e-9)
	require.InDelta(t, 5550, inv.FinalTotal, 1e-9)
	require.Equal(t, "5,550.00", inv.FinalTotalDisplay)
	require.Nil(t, inv.OverriddenRate)
}
