// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package identity

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// unusablePasswordPrefix marks a credential that can never verify.
// The prefix makes the stored value unparseable as a PHC hash and the
// random suffix keeps unusable credentials from comparing equal.
const unusablePasswordPrefix = "!"

// User represents a user account keyed by an immutable UUID.
//
// The UUID is generated once at creation and never changes; usernames
// are optional, and email handling belongs to the host application, so
// the UUID is the only identifier an account is guaranteed to have.
//
// Username, when set, holds the lowercased form and is unique under
// case-insensitive comparison. The empty string means "no username".
type User struct {
	UUID         uuid.UUID
	Username     string
	Name         string
	ShortName    string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	PasswordHash string
	LastLogin    *time.Time
	DateJoined   time.Time
	CreatedAt    time.Time
}

// Authenticatable is the password-credential capability of an identity.
type Authenticatable interface {
	// HasUsablePassword reports whether the credential can ever verify.
	HasUsablePassword() bool

	// CheckPassword verifies a plaintext password against the stored
	// credential. An unusable credential still costs one hash
	// computation so callers cannot time the difference.
	CheckPassword(h PasswordHasher, password string) bool
}

// Permissible is the role/flag capability of an identity.
type Permissible interface {
	Active() bool
	Staff() bool
	Superuser() bool

	// HasPerm reports whether the identity holds the named permission.
	HasPerm(perm string) bool
}

var (
	_ Authenticatable = (*User)(nil)
	_ Permissible     = (*User)(nil)
)

// NewUser creates a User with a freshly generated UUID. The account
// starts active, with no username and an unusable credential.
func NewUser() *User {
	now := time.Now()
	u := &User{
		UUID:       uuid.New(),
		IsActive:   true,
		DateJoined: now,
		CreatedAt:  now,
	}
	u.SetUnusablePassword()
	return u
}

// SetUsername validates and normalizes a username, then stores it.
// The stored value is the lowercased input; entry case is discarded.
func (u *User) SetUsername(username string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	u.Username = NormalizeUsername(username)
	return nil
}

// SetPassword hashes a plaintext password and stores the result.
func (u *User) SetPassword(h PasswordHasher, password string) error {
	hash, err := h.Hash(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// SetUnusablePassword replaces the credential with a sentinel that
// always fails verification.
func (u *User) SetUnusablePassword() {
	suffix := make([]byte, 20)
	// rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(suffix)
	u.PasswordHash = unusablePasswordPrefix + hex.EncodeToString(suffix)
}

// HasUsablePassword reports whether the credential can ever verify.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != "" && u.PasswordHash[:1] != unusablePasswordPrefix
}

// CheckPassword verifies a plaintext password against the stored
// credential.
func (u *User) CheckPassword(h PasswordHasher, password string) bool {
	if !u.HasUsablePassword() {
		// Burn a hash computation anyway so unusable credentials are
		// indistinguishable from wrong passwords by timing.
		_, _ = h.Verify(password, dummyPasswordHash)
		return false
	}
	ok, err := h.Verify(password, u.PasswordHash)
	return err == nil && ok
}

// Active reports whether the account may log in.
func (u *User) Active() bool { return u.IsActive }

// Staff reports whether the account may access administrative tooling.
func (u *User) Staff() bool { return u.IsStaff }

// Superuser reports whether the account holds all permissions.
func (u *User) Superuser() bool { return u.IsSuperuser }

// HasPerm reports whether the identity holds the named permission.
// Active superusers hold every permission; nobody else holds any at
// this layer.
func (u *User) HasPerm(_ string) bool {
	return u.IsActive && u.IsSuperuser
}

// FullName returns the display name.
func (u *User) FullName() string { return u.Name }

// ShortDisplayName returns the short display name.
func (u *User) ShortDisplayName() string { return u.ShortName }

// String returns the username, which may be empty.
func (u *User) String() string { return u.Username }
