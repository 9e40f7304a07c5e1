// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

// Package identity provides a UUID-keyed user identity model and the
// authentication primitives built around it.
//
// # Domain Types
//
// User is the identity record. Create instances with NewUser so the UUID
// is generated and the username passes through normalization; direct
// struct initialization bypasses validation and may create invalid state.
// Repository implementations receive pre-validated values from the
// constructors and setters.
//
// # Services
//
// Service types coordinate domain operations:
//   - Authenticator - resolves a login credential to an identity,
//     falling back from username to email lookup
//   - PasswordResetService - password reset token flow
//
// Both are created with constructors that validate their dependencies.
//
// # Username Convention
//
// Usernames are optional. When present they are stored lowercased and
// every query against them is case-insensitive. Absence is a single
// concept: the empty string in Go, NULL in the database.
package identity
