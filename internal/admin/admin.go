// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

// Package admin provides management operations over identities for
// operator tooling. It wraps the identity repository with lookup by
// UUID or username, glob search and credential management.
package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/unbservices/uuiduser/internal/identity"
)

// ListOptions narrows a List call. Search is a glob pattern matched
// case-insensitively against username, name and short name; an empty
// pattern matches everything.
type ListOptions struct {
	Search    string
	Active    *bool
	Staff     *bool
	Superuser *bool
	Limit     int
}

// UpdateParams carries the mutable identity fields for Update. Nil
// fields are left unchanged. The UUID is immutable and has no field
// here.
type UpdateParams struct {
	Username  *string
	Name      *string
	ShortName *string
	IsActive  *bool
	IsStaff   *bool
	Superuser *bool
}

// Service implements management operations over identities.
type Service struct {
	users  identity.UserRepository
	hasher identity.PasswordHasher
}

// NewService creates a new admin Service.
func NewService(users identity.UserRepository, hasher identity.PasswordHasher) (*Service, error) {
	if users == nil {
		return nil, oops.Code("ADMIN_INVALID_DEPENDENCY").Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("ADMIN_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	return &Service{users: users, hasher: hasher}, nil
}

// List returns identities matching opts. Flag filters and the limit
// are pushed down to the repository; the glob search is applied in
// memory over the returned page.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*identity.User, error) {
	filter := identity.UserFilter{
		Active:    opts.Active,
		Staff:     opts.Staff,
		Superuser: opts.Superuser,
	}
	// A search pattern filters after the fetch, so the limit can only
	// be pushed down when there is no pattern.
	if opts.Search == "" {
		filter.Limit = opts.Limit
	}

	users, err := s.users.Filter(ctx, filter)
	if err != nil {
		return nil, oops.Code("ADMIN_LIST_FAILED").
			With("operation", "filter users").
			Wrap(err)
	}
	if opts.Search == "" {
		return users, nil
	}

	matcher, err := glob.Compile(strings.ToLower(opts.Search))
	if err != nil {
		return nil, oops.Code("ADMIN_INVALID_PATTERN").
			With("pattern", opts.Search).
			Wrap(err)
	}

	var matched []*identity.User
	for _, user := range users {
		if matchesUser(matcher, user) {
			matched = append(matched, user)
			if opts.Limit > 0 && len(matched) == opts.Limit {
				break
			}
		}
	}
	return matched, nil
}

// matchesUser reports whether any display field matches the pattern.
func matchesUser(matcher glob.Glob, user *identity.User) bool {
	for _, field := range []string{user.Username, user.Name, user.ShortName} {
		if field != "" && matcher.Match(strings.ToLower(field)) {
			return true
		}
	}
	return false
}

// Get resolves an identity by reference: a UUID string or a username.
func (s *Service) Get(ctx context.Context, ref string) (*identity.User, error) {
	if ref == "" {
		return nil, oops.Code("ADMIN_INVALID_REFERENCE").Errorf("identity reference cannot be empty")
	}
	if id, err := uuid.Parse(ref); err == nil {
		return s.users.GetByUUID(ctx, id)
	}
	return s.users.GetByUsername(ctx, ref)
}

// Update applies the non-nil fields of params to an identity.
// A username change goes through the usual validation and
// normalization; the empty string clears the username.
func (s *Service) Update(ctx context.Context, ref string, params UpdateParams) (*identity.User, error) {
	user, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	if params.Username != nil {
		if *params.Username == "" {
			user.Username = ""
		} else if err := user.SetUsername(*params.Username); err != nil {
			return nil, err
		}
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.ShortName != nil {
		user.ShortName = *params.ShortName
	}
	if params.IsActive != nil {
		user.IsActive = *params.IsActive
	}
	if params.IsStaff != nil {
		user.IsStaff = *params.IsStaff
	}
	if params.Superuser != nil {
		user.IsSuperuser = *params.Superuser
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, identity.ErrDuplicateKey) {
			return nil, err
		}
		return nil, oops.Code("ADMIN_UPDATE_FAILED").
			With("uuid", user.UUID.String()).
			Wrap(err)
	}
	return user, nil
}

// SetPassword replaces an identity's password credential.
func (s *Service) SetPassword(ctx context.Context, ref, password string) error {
	user, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := user.SetPassword(s.hasher, password); err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.UUID, user.PasswordHash)
}

// SetUnusablePassword locks an identity out of password authentication.
func (s *Service) SetUnusablePassword(ctx context.Context, ref string) error {
	user, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	user.SetUnusablePassword()
	return s.users.UpdatePassword(ctx, user.UUID, user.PasswordHash)
}

// Activate marks an identity as active.
func (s *Service) Activate(ctx context.Context, ref string) error {
	return s.setActive(ctx, ref, true)
}

// Deactivate marks an identity as inactive without deleting it.
func (s *Service) Deactivate(ctx context.Context, ref string) error {
	return s.setActive(ctx, ref, false)
}

func (s *Service) setActive(ctx context.Context, ref string, active bool) error {
	user, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if user.IsActive == active {
		return nil
	}
	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return oops.Code("ADMIN_UPDATE_FAILED").
			With("uuid", user.UUID.String()).
			Wrap(err)
	}
	return nil
}

// Delete permanently removes an identity.
func (s *Service) Delete(ctx context.Context, ref string) error {
	user, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, user.UUID)
}
