package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondbrain/secondbrain-go/internal/crypto"
	"github.com/secondbrain/secondbrain-go/internal/model"
	"github.com/secondbrain/secondbrain-go/internal/repository/memory"
	"github.com/secondbrain/secondbrain-go/internal/validation"
)

func testHasher() *crypto.PasswordHasher {
	return crypto.NewPasswordHasher(crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func newTestAuthService(t *testing.T) (*AuthService, *crypto.TokenService) {
	t.Helper()
	tokens := crypto.NewTokenService("test-secret", time.Hour)
	return NewAuthService(memory.NewStore().Users(), testHasher(), tokens, validation.New()), tokens
}

func TestSignupOnceThenConflict(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, model.SignupRequest{Email: "a@x.com", Username: "a", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "a", user.Username)
	assert.NotZero(t, user.ID)

	_, err = svc.Signup(ctx, model.SignupRequest{Email: "a@x.com", Username: "other", Password: "p2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name  string
		req   model.SignupRequest
		field string
	}{
		{name: "missing email", req: model.SignupRequest{Username: "a", Password: "p"}, field: "email"},
		{name: "invalid email", req: model.SignupRequest{Email: "nope", Username: "a", Password: "p"}, field: "email"},
		{name: "blank username", req: model.SignupRequest{Email: "a@x.com", Username: "   ", Password: "p"}, field: "username"},
		{name: "missing password", req: model.SignupRequest{Email: "a@x.com", Username: "a"}, field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.req)
			var verr *validation.Error
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestSigninIssuesVerifiableToken(t *testing.T) {
	svc, tokens := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, model.SignupRequest{Email: "a@x.com", Username: "a", Password: "p1"})
	require.NoError(t, err)

	token, err := svc.Signin(ctx, model.SigninRequest{Email: " a@x.com ", Password: "p1"})
	require.NoError(t, err)

	userID, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestSigninInvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, model.SignupRequest{Email: "a@x.com", Username: "a", Password: "p1"})
	require.NoError(t, err)

	_, err = svc.Signin(ctx, model.SigninRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Signin(ctx, model.SigninRequest{Email: "nobody@x.com", Password: "p1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSigninWithoutSigningKey(t *testing.T) {
	svc := NewAuthService(memory.NewStore().Users(), testHasher(), crypto.NewTokenService("", time.Hour), validation.New())
	ctx := context.Background()

	_, err := svc.Signup(ctx, model.SignupRequest{Email: "a@x.com", Username: "a", Password: "p1"})
	require.NoError(t, err)

	_, err = svc.Signin(ctx, model.SigninRequest{Email: "a@x.com", Password: "p1"})
	assert.ErrorIs(t, err, crypto.ErrSigningKeyMissing)
}

func TestMe(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, model.SignupRequest{Email: "a@x.com", Username: "a", Password: "p1"})
	require.NoError(t, err)

	me, err := svc.Me(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, me)

	_, err = svc.Me(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
