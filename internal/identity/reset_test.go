// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package identity_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unbservices/uuiduser/internal/identity"
)

func TestNewPasswordReset(t *testing.T) {
	userUUID := uuid.New()
	expiry := time.Now().Add(time.Hour)

	t.Run("creates valid reset", func(t *testing.T) {
		reset, err := identity.NewPasswordReset(userUUID, "somehash", expiry)
		require.NoError(t, err)
		assert.Equal(t, userUUID, reset.UserUUID)
		assert.Equal(t, "somehash", reset.TokenHash)
		assert.False(t, reset.CreatedAt.IsZero())
	})

	t.Run("rejects nil user uuid", func(t *testing.T) {
		reset, err := identity.NewPasswordReset(uuid.Nil, "somehash", expiry)
		assert.Nil(t, reset)
		require.Error(t, err)
	})

	t.Run("rejects empty token hash", func(t *testing.T) {
		reset, err := identity.NewPasswordReset(userUUID, "", expiry)
		assert.Nil(t, reset)
		require.Error(t, err)
	})

	t.Run("rejects zero expiry", func(t *testing.T) {
		reset, err := identity.NewPasswordReset(userUUID, "somehash", time.Time{})
		assert.Nil(t, reset)
		require.Error(t, err)
	})
}

func TestPasswordReset_IsExpired(t *testing.T) {
	userUUID := uuid.New()

	t.Run("future expiry not expired", func(t *testing.T) {
		reset, err := identity.NewPasswordReset(userUUID, "h", time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, reset.IsExpired())
	})

	t.Run("past expiry expired", func(t *testing.T) {
		reset, err := identity.NewPasswordReset(userUUID, "h", time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, reset.IsExpired())
	})
}

func TestGenerateResetToken(t *testing.T) {
	t.Run("token and hash have expected shape", func(t *testing.T) {
		token, hash, err := identity.GenerateResetToken()
		require.NoError(t, err)
		assert.Len(t, token, identity.ResetTokenBytes*2) // hex-encoded
		assert.Len(t, hash, 64)                          // sha256 hex
		assert.NotEqual(t, token, hash)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		t1, _, err := identity.GenerateResetToken()
		require.NoError(t, err)
		t2, _, err := identity.GenerateResetToken()
		require.NoError(t, err)
		assert.NotEqual(t, t1, t2)
	})
}

func TestVerifyResetToken(t *testing.T) {
	token, hash, err := identity.GenerateResetToken()
	require.NoError(t, err)

	t.Run("matching token verifies", func(t *testing.T) {
		assert.True(t, identity.VerifyResetToken(token, hash))
	})

	t.Run("wrong token fails", func(t *testing.T) {
		assert.False(t, identity.VerifyResetToken("deadbeef", hash))
	})

	t.Run("empty inputs fail", func(t *testing.T) {
		assert.False(t, identity.VerifyResetToken("", hash))
		assert.False(t, identity.VerifyResetToken(token, ""))
	})
}
