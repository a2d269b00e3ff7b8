package suppliers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

func TestServiceValidate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, Supplier{Code: "", Name: "Factory A"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, Supplier{Code: "FA", Name: "  "})
	require.ErrorIs(t, err, shared.ErrValidation)

	sup, err := svc.Create(ctx, Supplier{Code: "FA", Name: "Factory A", Email: "sales@factory-a.example"})
	require.NoError(t, err)
	require.NotZero(t, sup.ID)
}

func TestServiceExists(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	sup, err := svc.Create(ctx, Supplier{Code: "FA", Name: "Factory A"})
	require.NoError(t, err)

	ok, err := svc.Exists(ctx, sup.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Exists(ctx, 999)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestServiceUpdate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	sup, err := svc.Create(ctx, Supplier{Code: "FA", Name: "Factory A"})
	require.NoError(t, err)

	sup.Phone = "+961-1-555555"
	updated, err := svc.Update(ctx, *sup)
	require.NoError(t, err)
	require.Equal(t, "+961-1-555555", updated.Phone)
}
