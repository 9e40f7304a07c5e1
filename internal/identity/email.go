// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package identity

import (
	"context"

	"github.com/samber/oops"
)

// EmailResolver maps an email address to an identity. Email storage is
// owned by the host application; this package only defines the contract
// the Authenticator and reset flow depend on.
type EmailResolver interface {
	// ResolveByEmail returns the identity owning the address, or
	// ErrNotFound. When primaryOnly is true only an address marked as
	// the identity's primary email may match; when false secondary and
	// alias addresses match as well.
	ResolveByEmail(ctx context.Context, address string, primaryOnly bool) (*User, error)
}

// NullEmailResolver is the default EmailResolver. It never resolves
// anything; hosts that support email login supply their own resolver.
type NullEmailResolver struct{}

// ResolveByEmail always returns ErrNotFound.
func (NullEmailResolver) ResolveByEmail(_ context.Context, address string, _ bool) (*User, error) {
	return nil, oops.Code("IDENTITY_NOT_FOUND").
		With("email", address).
		Wrap(ErrNotFound)
}

var _ EmailResolver = NullEmailResolver{}
