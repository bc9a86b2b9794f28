package postgres

import (
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/storeerr"
)

const (
	UniqueViolationCode     = "23505"
	ForeignKeyViolationCode = "23503"
)

// AsPgError extracts a server-reported error, if any.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

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

// IsConnectionError reports whether err means the server could not be reached or
// refused the session, as opposed to rejecting a statement.
func IsConnectionError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	if pe, ok := AsPgError(err); ok {
		// Class 08: connection exception. Class 28: invalid authorization.
		// 57P0x: server shutting down or not accepting connections. 53300: too many connections.
		switch {
		case strings.HasPrefix(pe.Code, "08"), strings.HasPrefix(pe.Code, "28"),
			strings.HasPrefix(pe.Code, "57P0"), pe.Code == "53300":
			return true
		}
		return false
	}
	// pgxpool reports a closed pool with a plain error.
	return strings.Contains(err.Error(), "closed pool")
}
