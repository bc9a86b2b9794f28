package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/apperr"
)

func writeOASError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(map[string]any(details))
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

// writeError renders err as an error envelope. Application errors keep their status;
// anything else is a 500. The underlying cause is logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Cause != nil {
			logger.ErrorContext(r.Context(), "request failed",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("code", ae.Code),
				slog.Any("error", ae.Cause),
			)
		}
		writeOASError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	logger.ErrorContext(r.Context(), "unhandled error",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("error", err),
	)
	writeOASError(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}

// writeJSON encodes v before committing the status, so an encoding failure
// becomes a 500 envelope rather than a success with a truncated body.
func writeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		writeError(w, r, logger, fmt.Errorf("encode response: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
