// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package identity

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// Config holds the process-wide authentication policy. The zero value
// is not usable; start from DefaultConfig.
type Config struct {
	// IdentifierField names the extra-fields key the identifier is
	// derived from when the caller passes none. Default "username".
	IdentifierField string

	// PrimaryEmailLoginOnly restricts the email fallback to addresses
	// marked as an identity's primary email. Default true.
	PrimaryEmailLoginOnly bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		IdentifierField:       "username",
		PrimaryEmailLoginOnly: true,
	}
}

// dummyPasswordHash is verified against when no identity matches, so the
// failure path costs one hash computation either way. This is NOT a real
// credential - it can never match any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Authenticator resolves login credentials to identities.
//
// Resolution is a two-stage fallback: exact case-insensitive username
// match first, then email resolution through the configured resolver.
// Every failure path (unknown identifier, unknown email, unusable
// credential, wrong password) reports the same ErrInvalidCredentials
// and performs equivalent hashing work, so neither the response nor its
// latency reveals whether an account exists.
//
// Stateless per call; safe for concurrent use.
type Authenticator struct {
	users  UserRepository
	emails EmailResolver
	hasher PasswordHasher
	cfg    Config
}

// NewAuthenticator creates an Authenticator. A nil emails resolver
// falls back to NullEmailResolver.
func NewAuthenticator(users UserRepository, emails EmailResolver, hasher PasswordHasher, cfg Config) (*Authenticator, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	if emails == nil {
		emails = NullEmailResolver{}
	}
	if cfg.IdentifierField == "" {
		cfg.IdentifierField = DefaultConfig().IdentifierField
	}
	return &Authenticator{
		users:  users,
		emails: emails,
		hasher: hasher,
		cfg:    cfg,
	}, nil
}

// Authenticate resolves (identifier, password) to an identity.
//
// An empty identifier is derived from extra[cfg.IdentifierField]; when
// no identifier can be derived at all the outcome is (nil, nil) - not
// an error, another authentication mechanism may handle the request.
// All authentication failures return ErrInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, password string, extra map[string]string) (*User, error) {
	if identifier == "" {
		identifier = extra[a.cfg.IdentifierField]
	}
	if identifier == "" {
		// Not applicable: credentials for some other mechanism.
		recordAuthAttempt(authOutcomeNotApplicable)
		return nil, nil
	}

	user, err := a.users.GetByUsername(ctx, identifier)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			recordAuthAttempt(authOutcomeError)
			return nil, oops.Code("AUTH_RESOLVE_FAILED").
				With("operation", "get user by username").
				Wrap(err)
		}

		user, err = a.emails.ResolveByEmail(ctx, identifier, a.cfg.PrimaryEmailLoginOnly)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				recordAuthAttempt(authOutcomeError)
				return nil, oops.Code("AUTH_RESOLVE_FAILED").
					With("operation", "resolve by email").
					Wrap(err)
			}
			// No identity. Burn a hash computation so the miss costs
			// the same as a wrong password would.
			_, _ = a.hasher.Verify(password, dummyPasswordHash)
			recordAuthAttempt(authOutcomeInvalid)
			return nil, a.invalidCredentials()
		}
	}

	if !user.HasUsablePassword() {
		_, _ = a.hasher.Verify(password, dummyPasswordHash)
		recordAuthAttempt(authOutcomeInvalid)
		return nil, a.invalidCredentials()
	}

	valid, verifyErr := a.hasher.Verify(password, user.PasswordHash)
	if verifyErr != nil {
		recordAuthAttempt(authOutcomeError)
		return nil, oops.Code("AUTH_VERIFY_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}
	if !valid {
		recordAuthAttempt(authOutcomeInvalid)
		return nil, a.invalidCredentials()
	}

	// Best effort; authentication succeeds even if the write fails.
	_ = a.users.UpdateLastLogin(ctx, user.UUID, time.Now()) //nolint:errcheck // bookkeeping only

	recordAuthAttempt(authOutcomeSuccess)
	return user, nil
}

// invalidCredentials is the single collapsed failure outcome.
func (a *Authenticator) invalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").
		Wrapf(ErrInvalidCredentials, "invalid username or password")
}
