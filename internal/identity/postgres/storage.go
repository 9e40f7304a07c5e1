// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

// Package postgres provides PostgreSQL implementations of identity
// repositories.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories need. pgxmock pools
// satisfy it as well, so repository tests run without a database.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// usernameToStorage maps the in-memory absent-username sentinel (empty
// string) to SQL NULL. Empty and NULL are one concept; only NULL ever
// reaches the column, keeping the unique index meaningful for rows
// without a username.
func usernameToStorage(username string) *string {
	if username == "" {
		return nil
	}
	return &username
}

// usernameFromStorage maps SQL NULL back to the empty-string sentinel.
func usernameFromStorage(raw *string) string {
	if raw == nil {
		return ""
	}
	return *raw
}
