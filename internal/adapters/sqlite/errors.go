package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/storeerr"
)

// Classify wraps err as a storeerr connection or query failure.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsConnectionError(err) {
		return storeerr.Connection(op, err)
	}
	return storeerr.Query(op, err)
}

// IsConnectionError reports whether err means the database file could not be
// opened or the handle is no longer usable.
func IsConnectionError(err error) bool {
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}
	// database/sql does not export its closed-handle error.
	if strings.Contains(err.Error(), "sql: database is closed") {
		return true
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_CANTOPEN, sqlite3lib.SQLITE_NOTADB, sqlite3lib.SQLITE_AUTH, sqlite3lib.SQLITE_PERM:
			return true
		}
	}
	return false
}

// IsUniqueViolation reports whether err is a primary-key or unique constraint failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign key constraint failure.
func IsForeignKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}
