// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unbservices/uuiduser/internal/identity"
	"github.com/unbservices/uuiduser/internal/identity/mocks"
	"github.com/unbservices/uuiduser/pkg/errutil"
)

func newResetService(t *testing.T) (*identity.PasswordResetService, *mocks.MockUserRepository, *mocks.MockEmailResolver, *mocks.MockPasswordResetRepository, *mocks.MockPasswordHasher) {
	t.Helper()
	users := mocks.NewMockUserRepository(t)
	emails := mocks.NewMockEmailResolver(t)
	resets := mocks.NewMockPasswordResetRepository(t)
	hasher := mocks.NewMockPasswordHasher(t)
	svc, err := identity.NewPasswordResetService(users, emails, resets, hasher)
	require.NoError(t, err)
	return svc, users, emails, resets, hasher
}

func TestNewPasswordResetService_NilDependencies(t *testing.T) {
	users := mocks.NewMockUserRepository(t)
	resets := mocks.NewMockPasswordResetRepository(t)
	hasher := mocks.NewMockPasswordHasher(t)

	t.Run("nil users repository", func(t *testing.T) {
		svc, err := identity.NewPasswordResetService(nil, nil, resets, hasher)
		require.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("nil resets repository", func(t *testing.T) {
		svc, err := identity.NewPasswordResetService(users, nil, nil, hasher)
		require.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("nil hasher", func(t *testing.T) {
		svc, err := identity.NewPasswordResetService(users, nil, resets, nil)
		require.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("nil email resolver is allowed", func(t *testing.T) {
		svc, err := identity.NewPasswordResetService(users, nil, resets, hasher)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestPasswordResetService_IssueToken(t *testing.T) {
	ctx := context.Background()

	t.Run("issues token and stores hash", func(t *testing.T) {
		svc, _, _, resets, _ := newResetService(t)
		user := identity.NewUser()

		var stored *identity.PasswordReset
		resets.On("Create", ctx, mock.AnythingOfType("*identity.PasswordReset")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*identity.PasswordReset)
			}).
			Return(nil)

		token, err := svc.IssueToken(ctx, user)
		require.NoError(t, err)
		assert.Len(t, token, 64)

		require.NotNil(t, stored)
		assert.Equal(t, user.UUID, stored.UserUUID)
		assert.NotEqual(t, token, stored.TokenHash, "plaintext token must not be stored")
		assert.True(t, identity.VerifyResetToken(token, stored.TokenHash))
	})

	t.Run("rejects nil user", func(t *testing.T) {
		svc, _, _, _, _ := newResetService(t)
		_, err := svc.IssueToken(ctx, nil)
		require.Error(t, err)
	})
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	ctx := context.Background()

	t.Run("known email issues token", func(t *testing.T) {
		svc, _, emails, resets, _ := newResetService(t)
		user := identity.NewUser()

		emails.On("ResolveByEmail", ctx, "nick@example.com", false).Return(user, nil)
		resets.On("Create", ctx, mock.AnythingOfType("*identity.PasswordReset")).Return(nil)

		token, err := svc.RequestReset(ctx, "nick@example.com")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("unknown email returns empty token, no error", func(t *testing.T) {
		svc, _, emails, _, _ := newResetService(t)

		emails.On("ResolveByEmail", ctx, "ghost@example.com", false).Return(nil, identity.ErrNotFound)

		token, err := svc.RequestReset(ctx, "ghost@example.com")
		require.NoError(t, err, "unknown emails must not be distinguishable")
		assert.Empty(t, token)
	})

	t.Run("resolver failures are surfaced", func(t *testing.T) {
		svc, _, emails, _, _ := newResetService(t)

		emails.On("ResolveByEmail", ctx, "nick@example.com", false).Return(nil, assert.AnError)

		_, err := svc.RequestReset(ctx, "nick@example.com")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "RESET_REQUEST_FAILED")
	})
}

func TestPasswordResetService_VerifyToken(t *testing.T) {
	ctx := context.Background()
	user := identity.NewUser()

	t.Run("valid token verifies", func(t *testing.T) {
		svc, _, _, resets, _ := newResetService(t)

		token, hash, err := identity.GenerateResetToken()
		require.NoError(t, err)
		reset, err := identity.NewPasswordReset(user.UUID, hash, time.Now().Add(time.Hour))
		require.NoError(t, err)

		resets.On("GetByUser", ctx, user.UUID).Return(reset, nil)

		ok, err := svc.VerifyToken(ctx, user, token)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired request fails", func(t *testing.T) {
		svc, _, _, resets, _ := newResetService(t)

		token, hash, err := identity.GenerateResetToken()
		require.NoError(t, err)
		reset, err := identity.NewPasswordReset(user.UUID, hash, time.Now().Add(-time.Minute))
		require.NoError(t, err)

		resets.On("GetByUser", ctx, user.UUID).Return(reset, nil)

		ok, err := svc.VerifyToken(ctx, user, token)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no outstanding request fails cleanly", func(t *testing.T) {
		svc, _, _, resets, _ := newResetService(t)

		resets.On("GetByUser", ctx, user.UUID).Return(nil, identity.ErrNotFound)

		ok, err := svc.VerifyToken(ctx, user, "whatever")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPasswordResetService_ValidateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token returns user uuid", func(t *testing.T) {
		svc, _, _, resets, _ := newResetService(t)

		userUUID := uuid.New()
		token, hash, err := identity.GenerateResetToken()
		require.NoError(t, err)
		reset, err := identity.NewPasswordReset(userUUID, hash, time.Now().Add(time.Hour))
		require.NoError(t, err)

		resets.On("GetByTokenHash", ctx, hash).Return(reset, nil)

		got, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, userUUID, got)
	})

	t.Run("empty token rejected", func(t *testing.T) {
		svc, _, _, _, _ := newResetService(t)

		_, err := svc.ValidateToken(ctx, "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "RESET_TOKEN_EMPTY")
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		svc, _, _, resets, _ := newResetService(t)

		resets.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(nil, identity.ErrNotFound)

		_, err := svc.ValidateToken(ctx, "deadbeef")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "RESET_TOKEN_INVALID")
	})

	t.Run("expired token rejected", func(t *testing.T) {
		svc, _, _, resets, _ := newResetService(t)

		userUUID := uuid.New()
		token, hash, err := identity.GenerateResetToken()
		require.NoError(t, err)
		reset, err := identity.NewPasswordReset(userUUID, hash, time.Now().Add(-time.Minute))
		require.NoError(t, err)

		resets.On("GetByTokenHash", ctx, hash).Return(reset, nil)

		_, err = svc.ValidateToken(ctx, token)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "RESET_TOKEN_EXPIRED")
	})
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("resets password and clears outstanding requests", func(t *testing.T) {
		svc, users, _, resets, hasher := newResetService(t)

		userUUID := uuid.New()
		token, hash, err := identity.GenerateResetToken()
		require.NoError(t, err)
		reset, err := identity.NewPasswordReset(userUUID, hash, time.Now().Add(time.Hour))
		require.NoError(t, err)

		resets.On("GetByTokenHash", ctx, hash).Return(reset, nil)
		hasher.On("Hash", "new password").Return("$argon2id$newhash", nil)
		users.On("UpdatePassword", ctx, userUUID, "$argon2id$newhash").Return(nil)
		resets.On("DeleteByUser", ctx, userUUID).Return(nil)

		err = svc.ResetPassword(ctx, token, "new password")
		require.NoError(t, err)
	})

	t.Run("empty password rejected", func(t *testing.T) {
		svc, _, _, _, _ := newResetService(t)

		err := svc.ResetPassword(ctx, "token", "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "RESET_PASSWORD_EMPTY")
	})

	t.Run("cleanup failure does not fail the reset", func(t *testing.T) {
		svc, users, _, resets, hasher := newResetService(t)

		userUUID := uuid.New()
		token, hash, err := identity.GenerateResetToken()
		require.NoError(t, err)
		reset, err := identity.NewPasswordReset(userUUID, hash, time.Now().Add(time.Hour))
		require.NoError(t, err)

		resets.On("GetByTokenHash", ctx, hash).Return(reset, nil)
		hasher.On("Hash", "new password").Return("$argon2id$newhash", nil)
		users.On("UpdatePassword", ctx, userUUID, "$argon2id$newhash").Return(nil)
		resets.On("DeleteByUser", ctx, userUUID).Return(assert.AnError)

		err = svc.ResetPassword(ctx, token, "new password")
		require.NoError(t, err)
	})
}
