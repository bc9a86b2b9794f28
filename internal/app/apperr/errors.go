// Package apperr defines the application-layer error every service returns.
package apperr

import (
	"errors"
	"net/http"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/storeerr"
)

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeConflict         = "CONFLICT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeStoreError       = "STORE_ERROR"
)

// Error is an application-layer error that can be mapped to an HTTP response.
// Cause is logged by the transport and never sent to the client.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func Validation(message string, details map[string]any) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: CodeValidation, Message: message, Details: details}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

// Store maps an adapter failure to a client-safe error. Connection failures become
// 503; everything else becomes a 400 with a generic message.
func Store(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if storeerr.IsConnection(err) {
		return &Error{
			Status:  http.StatusServiceUnavailable,
			Code:    CodeStoreUnavailable,
			Message: "The data store is unavailable.",
			Cause:   err,
		}
	}
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeStoreError,
		Message: "The request could not be completed by the data store.",
		Cause:   err,
	}
}
