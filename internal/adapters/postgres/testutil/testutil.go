// Package testutil opens a throwaway Postgres schema for adapter tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres"
)

// OpenMigratedPool returns a pool bound to a fresh schema with the tables created.
// The schema is dropped when the test ends. Tests are skipped unless
// TEST_DATABASE_URL is set.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL"))
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{MaxConns: 2})
	if err != nil {
		t.Fatalf("open admin pool: %v", err)
	}
	if _, err := admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", pgx.Identifier{schema}.Sanitize())); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{
		RuntimeParams: map[string]string{"search_path": schema},
	})
	if err != nil {
		admin.Close()
		t.Fatalf("open pool: %v", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		admin.Close()
		t.Fatalf("ensure schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		_, _ = admin.Exec(dropCtx, fmt.Sprintf("DROP SCHEMA %s CASCADE", pgx.Identifier{schema}.Sanitize()))
		admin.Close()
	})
	return pool
}
