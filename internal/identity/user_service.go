// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// CreateUserParams carries the caller-supplied fields for a new
// identity.
//
// UUID is deliberately ignored: identities are always system-keyed.
// Any value set here is discarded and a fresh UUID generated, so a
// caller can round-trip decoded input without accidentally minting an
// identity under a chosen key.
type CreateUserParams struct {
	UUID        uuid.UUID
	Username    string
	Password    string
	Name        string
	ShortName   string
	IsStaff     bool
	IsSuperuser bool
}

// UserService handles identity creation.
type UserService struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(users UserRepository, hasher PasswordHasher) (*UserService, error) {
	if users == nil {
		return nil, oops.Code("IDENTITY_INVALID_DEPENDENCY").Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("IDENTITY_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	return &UserService{users: users, hasher: hasher}, nil
}

// Create builds, validates and persists a new identity.
//
// A supplied plaintext password is hashed; absent one the credential is
// marked unusable. A supplied username passes through the normalizer.
// Colliding usernames surface ErrDuplicateKey from the store.
func (s *UserService) Create(ctx context.Context, p CreateUserParams) (*User, error) {
	user := NewUser()

	if p.Password != "" {
		if err := user.SetPassword(s.hasher, p.Password); err != nil {
			return nil, oops.Code("IDENTITY_CREATE_FAILED").
				With("operation", "hash password").
				Wrap(err)
		}
	}

	if p.Username != "" {
		if err := user.SetUsername(p.Username); err != nil {
			return nil, err
		}
	}

	user.Name = p.Name
	user.ShortName = p.ShortName
	user.IsStaff = p.IsStaff
	user.IsSuperuser = p.IsSuperuser

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return nil, err
		}
		return nil, oops.Code("IDENTITY_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}

	return user, nil
}

// CreateSuperuser creates an identity with the staff and superuser
// flags forced on, overriding whatever the params carry.
func (s *UserService) CreateSuperuser(ctx context.Context, p CreateUserParams) (*User, error) {
	p.IsStaff = true
	p.IsSuperuser = true
	return s.Create(ctx, p)
}
