package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

func testMaterial() Material {
	return Material{
		Name:                "Aluminium 5.8",
		BladeWidth:          5.8,
		PricePerSquareMeter: 120,
		Colors:              []string{"white", "beige"},
		StockM2:             50,
	}
}

func TestCreateValidatesMaterial(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	cases := []func(*Material){
		func(m *Material) { m.Name = "  " },
		func(m *Material) { m.BladeWidth = 0 },
		func(m *Material) { m.PricePerSquareMeter = -1 },
		func(m *Material) { m.StockM2 = -1 },
	}
	for _, mutate := range cases {
		m := testMaterial()
		mutate(&m)
		_, err := svc.Create(ctx, m)
		require.ErrorIs(t, err, shared.ErrValidation)
	}

	created, err := svc.Create(ctx, testMaterial())
	require.NoError(t, err)
	require.Equal(t, "Aluminium 5.8", created.Name)
	require.Equal(t, 50.0, created.StockM2)
}

func TestCreateDuplicateName(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, testMaterial())
	require.NoError(t, err)
	_, err = svc.Create(ctx, testMaterial())
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestUpdatePreservesStock(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, testMaterial())
	require.NoError(t, err)

	m := testMaterial()
	m.PricePerSquareMeter = 150
	m.StockM2 = 0 // callers cannot move stock through Update
	updated, err := svc.Update(ctx, m)
	require.NoError(t, err)
	require.Equal(t, 150.0, updated.PricePerSquareMeter)
	require.Equal(t, 50.0, updated.StockM2)
}

func TestSnapshotCopiesMaterial(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, testMaterial())
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx, "Aluminium 5.8")
	require.NoError(t, err)
	require.Equal(t, 5.8, snap.BladeWidth)
	require.Equal(t, 120.0, snap.PricePerSquareMeter)
	require.Equal(t, []string{"white", "beige"}, snap.Colors)

	_, err = svc.Snapshot(ctx, "Wood")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestConsumeAndReplenish(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, testMaterial())
	require.NoError(t, err)

	require.NoError(t, svc.Consume(ctx, "Aluminium 5.8", 20))
	m, err := svc.Get(ctx, "Aluminium 5.8")
	require.NoError(t, err)
	require.Equal(t, 30.0, m.StockM2)

	err = svc.Consume(ctx, "Aluminium 5.8", 31)
	require.ErrorIs(t, err, ErrInsufficientStock)
	m, err = svc.Get(ctx, "Aluminium 5.8")
	require.NoError(t, err)
	require.Equal(t, 30.0, m.StockM2, "failed draw must not move stock")

	require.NoError(t, svc.Replenish(ctx, "Aluminium 5.8", 5))
	m, err = svc.Get(ctx, "Aluminium 5.8")
	require.NoError(t, err)
	require.Equal(t, 35.0, m.StockM2)
}

func TestConsumeRejectsNonPositiveArea(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	require.ErrorIs(t, svc.Consume(ctx, "x", 0), shared.ErrValidation)
	require.ErrorIs(t, svc.Replenish(ctx, "x", -2), shared.ErrValidation)
}
