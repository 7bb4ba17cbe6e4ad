package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/museofile/internal/events"
	"github.com/Skotchmaster/museofile/pkg/hash"
)

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{name: "empty username", username: "  ", email: "a@example.com", password: "secret"},
		{name: "empty email", username: "alice", email: "", password: "secret"},
		{name: "empty password", username: "alice", email: "a@example.com", password: " "},
		{name: "malformed email", username: "alice", email: "not-an-email", password: "secret"},
		{name: "display name email", username: "alice", email: "Alice <a@example.com>", password: "secret"},
		{name: "password too long", username: "alice", email: "a@example.com", password: strings.Repeat("x", 73)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tt.username, tt.email, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Register_SuccessAndConflict(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, " alice ", "Alice@Example.com", "pw123")
	require.NoError(t, err)
	assert.NotZero(t, res.User.ID)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Nil(t, res.Token)

	stored, err := env.repo.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
	assert.True(t, hash.CheckPassword(stored.PasswordHash, "pw123"))

	_, err = env.auth.Register(ctx, "alice", "other@example.com", "pw123")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.auth.Register(ctx, "alice2", "alice@example.com", "pw123")
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, []string{events.TypeUserRegistered}, env.pub.types())
}

func TestAuthService_Register_IssuesTokenWhenConfigured(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.auth.IssueOnRegister = true

	res, err := env.auth.Register(context.Background(), "bob", "bob@example.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, res.Token)

	id, err := env.tokens.Verify(context.Background(), res.Token.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "alice@example.com", "pw123")

	res, err := env.auth.Login(ctx, LoginInput{Username: "alice", Password: "pw123"})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	assert.False(t, res.ExpiresAt.IsZero())

	user, err := env.auth.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = env.auth.Login(ctx, LoginInput{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, LoginInput{Username: "nobody", Password: "pw123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, LoginInput{Username: "alice"})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, []string{events.TypeUserRegistered, events.TypeUserLoggedIn}, env.pub.types())
}

func TestAuthService_Login_ByEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.auth.LoginByEmail = true
	ctx := context.Background()
	env.register(t, "alice", "alice@example.com", "pw123")

	_, err := env.auth.Login(ctx, LoginInput{Email: "ALICE@example.com", Password: "pw123"})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, LoginInput{Username: "alice@example.com", Password: "pw123"})
	require.NoError(t, err, "username field carries the email in password forms")

	_, err = env.auth.Login(ctx, LoginInput{Username: "alice", Password: "pw123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_EventFailureDoesNotFailLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com", "pw123")
	env.pub.err = errors.New("broker down")

	_, err := env.auth.Login(context.Background(), LoginInput{Username: "alice", Password: "pw123"})
	assert.NoError(t, err)
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "alice@example.com", "pw123")

	_, err := env.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	issued, err := env.tokens.Issue(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, env.repo.DB.Delete(alice).Error)

	_, err = env.auth.Authenticate(ctx, issued.Token)
	assert.ErrorIs(t, err, ErrUnauthorized, "token of a deleted user")
}
