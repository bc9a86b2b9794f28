// Package sqlite holds the shared pieces of the SQLite store adapters, used for
// local development and for exercising the SQL repositories without a server.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open opens the database file at path, enables foreign keys on every connection,
// and creates missing tables. The caller owns the handle and must Close it.
//
// An in-memory path (":memory:" or a "mode=memory" URI) is pinned to a single
// connection; every new connection would otherwise see its own empty database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	memory := IsMemoryPath(path)

	var dsn string
	switch {
	case memory && strings.Contains(path, "?"):
		dsn = path + "&" + pragmas
	case memory:
		dsn = path + "?" + pragmas
	default:
		dsn = filepath.Clean(path) + "?" + pragmas + "&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, Classify("open sqlite db", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, Classify("ping sqlite db", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables the repositories expect if they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return Classify("ensure schema", err)
	}
	return nil
}

// IsMemoryPath reports whether path names an in-memory database.
func IsMemoryPath(path string) bool {
	p := strings.TrimSpace(path)
	return p == ":memory:" || strings.HasPrefix(p, "file::memory:") || strings.Contains(p, "mode=memory")
}
