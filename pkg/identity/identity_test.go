package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justin362/distribution-matrix-v2/pkg/kv"
)

func TestSignupAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemoryStore())

	user, err := svc.Signup(ctx, "alice@example.com", "secret1", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)

	got, err := svc.Authenticate(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemoryStore())

	_, err := svc.Signup(ctx, "", "secret1", "NoEmail")
	assert.Error(t, err)

	_, err = svc.Signup(ctx, "not-an-email", "secret1", "BadEmail")
	assert.Error(t, err)

	_, err = svc.Signup(ctx, "short@example.com", "12345", "ShortPass")
	assert.Error(t, err)
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemoryStore())

	_, err := svc.Signup(ctx, "bob@example.com", "secret1", "Bob")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "bob@example.com", "other-pass", "Bob II")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemoryStore())

	_, err := svc.Signup(ctx, "Carol@Example.com", "secret1", "Carol")
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "carol@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Carol@Example.com", got.Email)
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemoryStore())

	user, err := svc.Signup(ctx, "dave@example.com", "secret1", "Dave")
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dave", got.Name)

	_, err = svc.GetUser(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
