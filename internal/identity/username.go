// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package identity

import (
	"regexp"
	"strings"

	"github.com/samber/oops"
)

// Username length constraints.
const (
	MinUsernameLength = 2
	MaxUsernameLength = 255
)

// Username grammar:
//   - 2 characters: a letter followed by a letter or digit
//   - 3+ characters: first char a letter, last char a letter or digit,
//     interior chars letters, digits or . ' - _ with no run of two or
//     more consecutive punctuation characters
var (
	usernameShortRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]$`)
	usernameLongRegex  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9._'-]*[a-zA-Z0-9]$`)
)

// isUsernamePunct reports whether c is one of the punctuation characters
// permitted inside a username.
func isUsernamePunct(c byte) bool {
	return c == '-' || c == '_' || c == '\'' || c == '.'
}

// ValidateUsername validates a candidate username against the grammar.
// The check runs against the raw input; callers normalize separately.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return oops.Code("IDENTITY_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Wrapf(ErrInvalidUsername, "username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("IDENTITY_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Wrapf(ErrInvalidUsername, "username must be at most %d characters", MaxUsernameLength)
	}

	if len(username) == 2 {
		if !usernameShortRegex.MatchString(username) {
			return oops.Code("IDENTITY_INVALID_USERNAME").
				Wrapf(ErrInvalidUsername, "two-character usernames must be a letter followed by a letter or digit")
		}
		return nil
	}

	if !usernameLongRegex.MatchString(username) {
		return oops.Code("IDENTITY_INVALID_USERNAME").
			Wrapf(ErrInvalidUsername, "username must start with a letter, end with a letter or digit, and contain only letters, digits and . ' - _")
	}
	for i := 0; i+1 < len(username); i++ {
		if isUsernamePunct(username[i]) && isUsernamePunct(username[i+1]) {
			return oops.Code("IDENTITY_INVALID_USERNAME").
				Wrapf(ErrInvalidUsername, "username must not contain repeated punctuation")
		}
	}
	return nil
}

// NormalizeUsername returns the canonical stored form of a username.
// Usernames are stored lowercased; preserving entry case while keeping
// every comparison case-insensitive is left for a future version.
func NormalizeUsername(username string) string {
	return strings.ToLower(username)
}
