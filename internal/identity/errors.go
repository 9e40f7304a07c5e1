// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package identity

import "errors"

// ErrNotFound is returned when a requested identity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateKey is returned when a create or update violates a
// uniqueness constraint (uuid or case-insensitive username).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrAmbiguousMatch is returned when a lookup that must yield a single
// identity matches more than one row. Given the uniqueness constraints
// this indicates store corruption, not a recoverable condition.
var ErrAmbiguousMatch = errors.New("ambiguous match")

// ErrInvalidUsername is returned when a candidate username violates the
// username grammar.
var ErrInvalidUsername = errors.New("invalid username")

// ErrInvalidCredentials is the single failure outcome of Authenticate.
// Unknown identifier, unknown email, unusable credential and wrong
// password all collapse into this value so callers cannot enumerate
// accounts from the response.
var ErrInvalidCredentials = errors.New("invalid credentials")
