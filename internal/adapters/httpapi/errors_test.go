package httpapi

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/apperr"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/auth/password"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/config"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/logging"
)

func TestWriteJSON_EncodeFailureIs500(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	writeJSON(rec, req, logging.Discard(), http.StatusOK, map[string]float64{"v": math.Inf(1)})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want=%d body=%s", rec.Code, http.StatusInternalServerError, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "INTERNAL" {
		t.Fatalf("code=%q", code)
	}
}

func TestWriteError_LogsCauseButHidesItFromClient(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := logging.NewWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &logs)

	ae := apperr.Unauthorized("Invalid national ID or password")
	ae.Cause = fmt.Errorf("verify password for account 1: %w", password.ErrInvalidDigest)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mobile/login/", nil)
	writeError(rec, req, logger, ae)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
	if strings.Contains(rec.Body.String(), "digest") {
		t.Fatalf("cause leaked to client: %s", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "invalid password digest") {
		t.Fatalf("cause not logged: %q", logs.String())
	}
}
