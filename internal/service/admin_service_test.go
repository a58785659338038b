package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testRecoveryKey = "SHOP_RECOVERY_2024"

var defaultAdmin = domain.AdminCredential{Username: "admin", Password: "123456"}

func newAdminService(t *testing.T, hasher PasswordHasher) (AdminService, TokenService, *harness) {
	t.Helper()
	h := newHarness()
	tokens := NewTokenService("test-secret", time.Hour)
	auth := NewCredentialAuthenticator(h.uow, hasher, defaultAdmin)
	require.NoError(t, Bootstrap(context.Background(), h.uow, hasher, defaultAdmin, nil, zap.NewNop()))
	return NewAdminService(auth, tokens, testRecoveryKey, zap.NewNop()), tokens, h
}

func TestAdminService_LoginIssuesAdminToken(t *testing.T) {
	ctx := context.Background()
	svc, tokens, _ := newAdminService(t, PlaintextHasher{})

	token, err := svc.Login(ctx, "admin", "123456")
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = svc.Login(ctx, "admin", "12345")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "root", "123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAdminService(t, BcryptHasher{Cost: 4})

	err := svc.ChangePassword(ctx, "admin", "wrong", "abcdef", "abcdef")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, "admin", "123456", "abc", "abc")
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.ChangePassword(ctx, "admin", "123456", "abcdef", "abcdeg")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, "admin", "123456", "abcdef", "abcdef"))

	_, err = svc.Login(ctx, "admin", "123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "admin", "abcdef")
	require.NoError(t, err)

	// Reusing the current password is allowed
	require.NoError(t, svc.ChangePassword(ctx, "admin", "abcdef", "abcdef", "abcdef"))
}

func TestAdminService_Recover(t *testing.T) {
	ctx := context.Background()
	svc, _, h := newAdminService(t, PlaintextHasher{})

	require.NoError(t, svc.ChangePassword(ctx, "admin", "123456", "changed1", "changed1"))

	assert.ErrorIs(t, svc.Recover(ctx, "guess"), ErrInvalidCredentials)
	require.NoError(t, svc.Recover(ctx, testRecoveryKey))

	_, err := svc.Login(ctx, "admin", "123456")
	require.NoError(t, err)

	stored, err := h.repos.Admin.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultAdmin, *stored)
}

func TestCredentialAuthenticator_FallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	auth := NewCredentialAuthenticator(h.uow, BcryptHasher{Cost: 4}, defaultAdmin)

	ok, err := auth.Verify(ctx, "admin", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, auth.Rotate(ctx, "fresh-secret"))

	stored, err := h.repos.Admin.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", stored.Username)
	assert.NotEqual(t, "fresh-secret", stored.Password)

	ok, err = auth.Verify(ctx, "admin", "fresh-secret")
	require.NoError(t, err)
	assert.True(t, ok)
}
