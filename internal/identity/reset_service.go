// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// PasswordResetService handles password reset operations. Token
// generation, salting and expiry live in this package; the service only
// supplies the identity as the signing subject and persists the hash.
type PasswordResetService struct {
	users  UserRepository
	emails EmailResolver
	resets PasswordResetRepository
	hasher PasswordHasher
}

// NewPasswordResetService creates a new PasswordResetService. A nil
// emails resolver falls back to NullEmailResolver, which disables
// reset-by-email until the host supplies its own.
func NewPasswordResetService(
	users UserRepository,
	emails EmailResolver,
	resets PasswordResetRepository,
	hasher PasswordHasher,
) (*PasswordResetService, error) {
	if users == nil {
		return nil, oops.Code("RESET_INVALID_DEPENDENCY").Errorf("users repository is required")
	}
	if resets == nil {
		return nil, oops.Code("RESET_INVALID_DEPENDENCY").Errorf("resets repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("RESET_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	if emails == nil {
		emails = NullEmailResolver{}
	}
	return &PasswordResetService{
		users:  users,
		emails: emails,
		resets: resets,
		hasher: hasher,
	}, nil
}

// IssueToken issues a reset token for a known identity.
// Returns the plaintext token; the stored side is only the hash.
func (s *PasswordResetService) IssueToken(ctx context.Context, user *User) (string, error) {
	if user == nil {
		return "", oops.Code("RESET_INVALID_USER").Errorf("user cannot be nil")
	}

	token, hash, err := GenerateResetToken()
	if err != nil {
		return "", oops.Code("RESET_ISSUE_FAILED").
			With("operation", "GenerateResetToken").
			Wrap(err)
	}

	reset, err := NewPasswordReset(user.UUID, hash, time.Now().Add(ResetTokenExpiry))
	if err != nil {
		return "", oops.Code("RESET_ISSUE_FAILED").
			With("operation", "NewPasswordReset").
			Wrap(err)
	}

	if err := s.resets.Create(ctx, reset); err != nil {
		return "", oops.Code("RESET_ISSUE_FAILED").
			With("operation", "Create").
			Wrap(err)
	}

	return token, nil
}

// RequestReset requests a password reset by email address. The email
// is resolved with primaryOnly=false: any address the host recognizes
// may start a reset.
// If no identity owns the address, returns success with an empty token
// to prevent email enumeration.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (string, error) {
	user, err := s.emails.ResolveByEmail(ctx, email, false)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Success with empty token to prevent email enumeration.
			return "", nil
		}
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "ResolveByEmail").
			Wrap(err)
	}

	return s.IssueToken(ctx, user)
}

// VerifyToken checks a plaintext token against an identity's latest
// reset request without consuming it.
func (s *PasswordResetService) VerifyToken(ctx context.Context, user *User, token string) (bool, error) {
	if user == nil {
		return false, oops.Code("RESET_INVALID_USER").Errorf("user cannot be nil")
	}

	reset, err := s.resets.GetByUser(ctx, user.UUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, oops.Code("RESET_VERIFY_FAILED").
			With("operation", "GetByUser").
			Wrap(err)
	}
	if reset.IsExpired() {
		return false, nil
	}

	return VerifyResetToken(token, reset.TokenHash), nil
}

// ValidateToken validates a reset token and returns the associated
// identity UUID. Returns an error if the token is invalid, expired, or
// not found.
func (s *PasswordResetService) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, oops.Code("RESET_TOKEN_EMPTY").Errorf("reset token cannot be empty")
	}

	hash := hashResetToken(token)

	reset, err := s.resets.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return uuid.Nil, oops.Code("RESET_TOKEN_INVALID").Errorf("reset token not found")
		}
		return uuid.Nil, oops.Code("RESET_VALIDATE_FAILED").
			With("operation", "GetByTokenHash").
			Wrap(err)
	}

	if reset.IsExpired() {
		return uuid.Nil, oops.Code("RESET_TOKEN_EXPIRED").Errorf("reset token has expired")
	}

	return reset.UserUUID, nil
}

// ResetPassword resets an identity's password using a valid reset
// token, then deletes the identity's outstanding reset requests.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return oops.Code("RESET_PASSWORD_EMPTY").Errorf("new password cannot be empty")
	}

	userUUID, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err // Already has appropriate error code
	}

	hashedPassword, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "Hash").
			Wrap(err)
	}

	if err := s.users.UpdatePassword(ctx, userUUID, hashedPassword); err != nil {
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "UpdatePassword").
			Wrap(err)
	}

	// Cleanup; the password update already succeeded.
	//nolint:errcheck // cleanup failure is acceptable
	s.resets.DeleteByUser(ctx, userUUID)

	return nil
}
