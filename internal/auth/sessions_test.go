package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, ttl), mr
}

func TestSessionRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()
	actor := shared.Actor{UserID: 7, Role: shared.RoleAdmin}

	token, err := store.Create(ctx, actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, actor, got)
}

func TestSessionUnknownToken(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	_, err := store.Resolve(context.Background(), "nope")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestSessionExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, shared.Actor{UserID: 1, Role: shared.RoleUser})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestSessionResolveSlidesExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, shared.Actor{UserID: 1, Role: shared.RoleUser})
	require.NoError(t, err)

	mr.FastForward(40 * time.Second)
	_, err = store.Resolve(ctx, token)
	require.NoError(t, err)

	// Without the slide this would be past the original minute.
	mr.FastForward(40 * time.Second)
	_, err = store.Resolve(ctx, token)
	require.NoError(t, err)
}

func TestSessionDelete(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, shared.Actor{UserID: 1, Role: shared.RoleUser})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, token))
	_, err = store.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	// Deleting twice is fine.
	require.NoError(t, store.Delete(ctx, token))
}
