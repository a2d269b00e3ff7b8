package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	openings := []Opening{
		{CodeLength: 2.5, NumberOfCodes: 30}, // 2.5 * 30 * 6.0 / 100 = 4.5 m²
	}
	got := ComputeTotals(openings, 6.0, 120, nil)
	require.InDelta(t, 4.5, got.TotalArea, 1e-9)
	require.InDelta(t, 540, got.TotalCost, 1e-9)
}

func TestComputeTotalsSumsOpenings(t *testing.T) {
	openings := []Opening{
		{CodeLength: 1.0, NumberOfCodes: 28},
		{CodeLength: 1.5, NumberOfCodes: 20},
	}
	got := ComputeTotals(openings, 5.8, 100, nil)
	want := 1.0*28*5.8/100 + 1.5*20*5.8/100
	require.InDelta(t, want, got.TotalArea, 1e-9)
	require.InDelta(t, want*100, got.TotalCost, 1e-9)
}

func TestComputeTotalsOverrideWins(t *testing.T) {
	openings := []Opening{{CodeLength: 2.5, NumberOfCodes: 30}}
	override := 80.0
	got := ComputeTotals(openings, 6.0, 120, &override)
	require.InDelta(t, 4.5*80, got.TotalCost, 1e-9)
}

func TestRecomputeTotalsIsIdempotent(t *testing.T) {
	o := Order{
		Openings:            []Opening{{CodeLength: 2.5, NumberOfCodes: 30}},
		BladeWidth:          6.0,
		PricePerSquareMeter: 120,
	}
	o.RecomputeTotals()
	area, cost := o.TotalArea, o.TotalCost
	o.RecomputeTotals()
	require.Equal(t, area, o.TotalArea)
	require.Equal(t, cost, o.TotalCost)
}

func TestRecomputeTotalsClearingOverrideRestoresSnapshotRate(t *testing.T) {
	override := 80.0
	o := Order{
		Openings:                      []Opening{{CodeLength: 2.5, NumberOfCodes: 30}},
		BladeWidth:                    6.0,
		PricePerSquareMeter:           120,
		OverriddenPricePerSquareMeter: &override,
	}
	o.RecomputeTotals()
	require.InDelta(t, 360, o.TotalCost, 1e-9)

	o.OverriddenPricePerSquareMeter = nil
	o.RecomputeTotals()
	require.InDelta(t, 540, o.TotalCost, 1e-9)
}

func TestEffectiveRateAndFinalTotal(t *testing.T) {
	o := Order{
		Openings:            []Opening{{CodeLength: 2.5, NumberOfCodes: 30}},
		BladeWidth:          6.0,
		PricePerSquareMeter: 120,
		DeliveryCost:        50,
	}
	o.RecomputeTotals()
	require.Equal(t, 120.0, o.EffectiveRate())
	require.InDelta(t, 590, o.FinalTotal(), 1e-9)

	override := 100.0
	o.OverriddenPricePerSquareMeter = &override
	o.RecomputeTotals()
	require.Equal(t, 100.0, o.EffectiveRate())
	require.InDelta(t, 500, o.FinalTotal(), 1e-9)
}
