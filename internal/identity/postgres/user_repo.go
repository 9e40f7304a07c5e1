// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/unbservices/uuiduser/internal/identity"
)

// userColumns is the select list shared by every user query.
const userColumns = `uuid, username, name, short_name, is_active, is_staff, is_superuser,
		       password_hash, last_login, date_joined, created_at`

// UserRepository implements identity.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new identity. Unique-constraint violations on the
// uuid or the case-insensitive username surface ErrDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, user *identity.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (
			uuid, username, name, short_name, is_active, is_staff,
			is_superuser, password_hash, last_login, date_joined, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		user.UUID.String(),
		usernameToStorage(user.Username),
		user.Name,
		user.ShortName,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
		user.PasswordHash,
		user.LastLogin,
		user.DateJoined,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("IDENTITY_DUPLICATE").
				With("username", user.Username).
				With("constraint", pgErr.ConstraintName).
				Wrap(identity.ErrDuplicateKey)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}
	return nil
}

// GetByUUID retrieves an identity by its UUID.
func (r *UserRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE uuid = $1
	`, id.String())

	user, err := scanUserRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("IDENTITY_NOT_FOUND").
			With("uuid", id.String()).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_UUID_FAILED").
			With("operation", "get user by uuid").
			With("uuid", id.String()).
			Wrap(err)
	}
	return user, nil
}

// GetByUsername retrieves an identity by case-insensitive exact
// username equality. A multi-row match is reported as
// ErrAmbiguousMatch; the unique index makes that a consistency fault,
// not an expected outcome.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*identity.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(username) = LOWER($1)
		LIMIT 2
	`, username)
	if err != nil {
		return nil, oops.Code("USER_GET_BY_USERNAME_FAILED").
			With("operation", "get user by username").
			With("username", username).
			Wrap(err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, oops.Code("USER_GET_BY_USERNAME_FAILED").
			With("operation", "scan user rows").
			With("username", username).
			Wrap(err)
	}

	switch len(users) {
	case 0:
		return nil, oops.Code("IDENTITY_NOT_FOUND").
			With("username", username).
			Wrap(identity.ErrNotFound)
	case 1:
		return users[0], nil
	default:
		return nil, oops.Code("IDENTITY_AMBIGUOUS").
			With("username", username).
			Wrap(identity.ErrAmbiguousMatch)
	}
}

// Filter returns identities matching the filter. A Username value is
// rewritten to the case-insensitive match; this blanket rewrite applies
// only to this top-level field.
func (r *UserRepository) Filter(ctx context.Context, f identity.UserFilter) ([]*identity.User, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Username != "" {
		where = append(where, "LOWER(username) = LOWER("+arg(f.Username)+")")
	}
	if f.Active != nil {
		where = append(where, "is_active = "+arg(*f.Active))
	}
	if f.Staff != nil {
		where = append(where, "is_staff = "+arg(*f.Staff))
	}
	if f.Superuser != nil {
		where = append(where, "is_superuser = "+arg(*f.Superuser))
	}

	sql := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY created_at, uuid"
	if f.Limit > 0 {
		sql += " LIMIT " + arg(f.Limit)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, oops.Code("USER_FILTER_FAILED").
			With("operation", "filter users").
			Wrap(err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, oops.Code("USER_FILTER_FAILED").
			With("operation", "scan user rows").
			Wrap(err)
	}
	return users, nil
}

// Update updates every mutable field of an existing identity. The UUID
// only addresses the record.
func (r *UserRepository) Update(ctx context.Context, user *identity.User) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET
			username = $2,
			name = $3,
			short_name = $4,
			is_active = $5,
			is_staff = $6,
			is_superuser = $7,
			password_hash = $8,
			last_login = $9,
			date_joined = $10
		WHERE uuid = $1
	`,
		user.UUID.String(),
		usernameToStorage(user.Username),
		user.Name,
		user.ShortName,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
		user.PasswordHash,
		user.LastLogin,
		user.DateJoined,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("IDENTITY_DUPLICATE").
				With("username", user.Username).
				Wrap(identity.ErrDuplicateKey)
		}
		return oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user").
			With("uuid", user.UUID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("IDENTITY_NOT_FOUND").
			With("uuid", user.UUID.String()).
			Wrap(identity.ErrNotFound)
	}
	return nil
}

// UpdatePassword updates only the password credential.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2 WHERE uuid = $1
	`, id.String(), passwordHash)
	if err != nil {
		return oops.Code("USER_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("uuid", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("IDENTITY_NOT_FOUND").
			With("uuid", id.String()).
			Wrap(identity.ErrNotFound)
	}
	return nil
}

// UpdateLastLogin records a successful authentication.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET last_login = $2 WHERE uuid = $1
	`, id.String(), at)
	if err != nil {
		return oops.Code("USER_UPDATE_LAST_LOGIN_FAILED").
			With("operation", "update last login").
			With("uuid", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("IDENTITY_NOT_FOUND").
			With("uuid", id.String()).
			Wrap(identity.ErrNotFound)
	}
	return nil
}

// Delete removes an identity.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM users WHERE uuid = $1
	`, id.String())
	if err != nil {
		return oops.Code("USER_DELETE_FAILED").
			With("operation", "delete user").
			With("uuid", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("IDENTITY_NOT_FOUND").
			With("uuid", id.String()).
			Wrap(identity.ErrNotFound)
	}
	return nil
}

// scanUserRow scans a single row into a User.
// Callers are responsible for handling pgx.ErrNoRows.
func scanUserRow(row pgx.Row) (*identity.User, error) {
	var (
		uuidStr      string
		username     *string
		name         string
		shortName    string
		isActive     bool
		isStaff      bool
		isSuperuser  bool
		passwordHash string
		lastLogin    *time.Time
		dateJoined   time.Time
		createdAt    time.Time
	)

	err := row.Scan(
		&uuidStr,
		&username,
		&name,
		&shortName,
		&isActive,
		&isStaff,
		&isSuperuser,
		&passwordHash,
		&lastLogin,
		&dateJoined,
		&createdAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").
			With("operation", "scan user").
			Wrap(err)
	}

	id, err := uuid.Parse(uuidStr)
	if err != nil {
		return nil, oops.Code("USER_INVALID_UUID").
			With("operation", "parse user uuid").
			With("uuid", uuidStr).
			Wrap(err)
	}

	return &identity.User{
		UUID:         id,
		Username:     usernameFromStorage(username),
		Name:         name,
		ShortName:    shortName,
		IsActive:     isActive,
		IsStaff:      isStaff,
		IsSuperuser:  isSuperuser,
		PasswordHash: passwordHash,
		LastLogin:    lastLogin,
		DateJoined:   dateJoined,
		CreatedAt:    createdAt,
	}, nil
}

// collectUsers drains rows into a slice.
func collectUsers(rows pgx.Rows) ([]*identity.User, error) {
	var users []*identity.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
	}
	return users, nil
}

// Compile-time interface check.
var _ identity.UserRepository = (*UserRepository)(nil)
