package postgres

import (
	"context"
	_ "embed"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the tables the repositories expect if they are missing.
// It never alters existing tables.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("nil postgres pool")
	}
	// No arguments: pgx uses the simple protocol, which accepts several statements.
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return Classify("ensure schema", err)
	}
	return nil
}
