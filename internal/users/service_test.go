package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

func registerInput() RegisterInput {
	return RegisterInput{
		Email:    "Rami@Example.com",
		Name:     "Rami Haddad",
		Phone:    "+961-3-123456",
		Password: "s3cret-pass",
		Role:     shared.RoleUser,
	}
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	u, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.Equal(t, "rami@example.com", u.Email)
	require.NotEqual(t, "s3cret-pass", u.PasswordHash)
	require.True(t, u.IsActive)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	in := registerInput()
	in.Email = " "
	_, err := svc.Register(ctx, in)
	require.ErrorIs(t, err, shared.ErrValidation)

	in = registerInput()
	in.Password = "short"
	_, err = svc.Register(ctx, in)
	require.ErrorIs(t, err, shared.ErrValidation)

	in = registerInput()
	in.Role = shared.Role("superuser")
	_, err = svc.Register(ctx, in)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	in := registerInput()
	in.Email = "RAMI@example.com" // case-insensitive match
	_, err = svc.Register(ctx, in)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "rami@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, created.ID, u.ID)

	_, err = svc.Authenticate(ctx, "rami@example.com", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ghost@example.com", "s3cret-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, u.ID, false))

	_, err = svc.Authenticate(ctx, "rami@example.com", "s3cret-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}
