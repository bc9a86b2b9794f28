// Package storeerr defines the error kinds every store adapter reports.
//
// Adapters wrap driver errors in *Error so the application layer can tell an
// unreachable store from a failing statement without knowing the driver.
package storeerr

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection indicates the store could not be reached: name resolution,
	// dial, authentication, or a closed pool.
	ErrConnection = errors.New("store connection failed")

	// ErrQuery indicates a statement failed after a connection was obtained.
	ErrQuery = errors.New("store query failed")
)

// Error wraps a driver error with its kind and the operation that failed.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Connection wraps err as a connection failure.
func Connection(op string, err error) error {
	return &Error{Kind: ErrConnection, Op: op, Err: err}
}

// Query wraps err as a statement failure.
func Query(op string, err error) error {
	return &Error{Kind: ErrQuery, Op: op, Err: err}
}

// IsConnection reports whether err is a connection failure.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}
