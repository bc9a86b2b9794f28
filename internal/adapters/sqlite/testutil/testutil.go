// Package testutil opens throwaway SQLite databases for adapter tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite"
)

// OpenDB returns a database in the test's temp dir with the tables created.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "traffic.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
