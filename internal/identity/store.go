// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserFilter selects identities in bulk queries.
//
// Nil flag pointers mean "don't care". Username, when set, is ALWAYS
// rewritten by implementations to a case-insensitive exact match; this
// blanket policy covers only this top-level field, not lookups that
// reach usernames through related records.
type UserFilter struct {
	Username  string
	Active    *bool
	Staff     *bool
	Superuser *bool

	// Limit caps the result size. Zero means no limit.
	Limit int
}

// UserRepository manages identity persistence.
//
// Uniqueness of uuid and of the case-insensitive username is enforced
// by the store's constraints, not by application-level coordination;
// colliding creates surface ErrDuplicateKey at commit time.
type UserRepository interface {
	// Create stores a new identity.
	Create(ctx context.Context, user *User) error

	// GetByUUID retrieves an identity by its UUID.
	GetByUUID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves an identity by username using
	// case-insensitive exact equality. Returns ErrNotFound on a miss
	// and ErrAmbiguousMatch if more than one row matches.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Filter returns identities matching the filter.
	Filter(ctx context.Context, f UserFilter) ([]*User, error)

	// Update updates every mutable field of an existing identity.
	// The UUID is immutable and used only to address the record.
	Update(ctx context.Context, user *User) error

	// UpdatePassword updates only the password credential.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// UpdateLastLogin records a successful authentication.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// Delete removes an identity.
	Delete(ctx context.Context, id uuid.UUID) error
}
