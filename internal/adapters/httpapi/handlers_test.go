package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	memaccountrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/accountrepo"
	memcatalog "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/catalog"
	memclock "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/clock"
	memsignalrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/signalrepo"
	memvehiclerepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/vehiclerepo"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/accounts"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/diagnostics"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/signals"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/vehicles"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/auth/password"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/auth/token"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/logging"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/accountrepo"
)

type testAPI struct {
	t        *testing.T
	h        http.Handler
	tokens   *token.Service
	accounts *memaccountrepo.Repo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Unix(1700000000, 0).UTC())
	tokens, err := token.NewWithOptions(testSecret, time.Hour, clk)
	if err != nil {
		t.Fatalf("token.NewWithOptions: %v", err)
	}
	hasher := password.NewHasher(bcrypt.MinCost)

	accountRepo := memaccountrepo.NewRepo()
	api := NewServer(
		accounts.NewService(accountRepo, hasher, tokens),
		vehicles.NewService(accountRepo, memvehiclerepo.NewRepo(accountRepo), hasher),
		signals.NewService(memsignalrepo.NewRepo()),
		diagnostics.NewService(memcatalog.New()),
		logging.Discard(),
	)
	h := NewRouterWithOptions(api, RouterOptions{AuthMiddleware: NewAuthMiddleware(tokens)})
	return &testAPI{t: t, h: h, tokens: tokens, accounts: accountRepo}
}

func (a *testAPI) do(method, path, bearer string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) expect(rec *httptest.ResponseRecorder, status int) {
	a.t.Helper()
	if rec.Code != status {
		a.t.Fatalf("status=%d want=%d body=%s", rec.Code, status, rec.Body.String())
	}
}

func (a *testAPI) signup(id, pw string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/mobile/signup/", "", map[string]any{
		"national_id":  id,
		"name":         "Sara Ahmadi",
		"phone_number": "0912000000",
		"email":        "sara@example.com",
		"password":     pw,
		"type":         "citizen",
	})
	a.expect(rec, http.StatusOK)
}

func (a *testAPI) login(id, pw string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/mobile/login/", "", map[string]any{"national_id": id, "password": pw})
	a.expect(rec, http.StatusOK)
	var out LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		a.t.Fatalf("decode login: %v", err)
	}
	return out.AccessToken
}

func TestRoot(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/", "", nil)
	api.expect(rec, http.StatusOK)
	var got MessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || got.Message == "" {
		t.Fatalf("body=%s err=%v", rec.Body.String(), err)
	}

	api.expect(api.do(http.MethodGet, "/healthz", "", nil), http.StatusOK)
}

func TestSignupLoginScenario(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/mobile/signup/", "", map[string]any{
		"national_id":  "123",
		"name":         "Sara Ahmadi",
		"phone_number": "0912000000",
		"email":        "sara@example.com",
		"password":     "pw",
		"type":         "citizen",
	})
	api.expect(rec, http.StatusOK)
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Fatalf("signup response leaks password: %s", rec.Body.String())
	}

	rec = api.do(http.MethodPost, "/mobile/login/", "", map[string]any{"national_id": "123", "password": "pw"})
	api.expect(rec, http.StatusOK)
	var login LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if login.AccessToken == "" || login.TokenType != "bearer" || login.NationalId != "123" || login.Type != "citizen" {
		t.Fatalf("login=%+v", login)
	}

	rec = api.do(http.MethodPost, "/mobile/login/", "", map[string]any{"national_id": "123", "password": "wrong"})
	api.expect(rec, http.StatusUnauthorized)
	if code := decodeErrorCode(t, rec); code != "UNAUTHORIZED" {
		t.Fatalf("code=%q", code)
	}

	api.expect(api.do(http.MethodGet, "/mobile/users/me-protected", login.AccessToken, nil), http.StatusOK)
	api.expect(api.do(http.MethodGet, "/mobile/users/me-protected", "", nil), http.StatusUnauthorized)
}

func TestSignup_Conflict(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	api.signup("123", "pw")

	rec := api.do(http.MethodPost, "/mobile/signup", "", map[string]any{
		"national_id":  "123",
		"name":         "Other",
		"phone_number": "1",
		"email":        "other@example.com",
		"password":     "x",
		"type":         "admin",
	})
	api.expect(rec, http.StatusBadRequest)
	if code := decodeErrorCode(t, rec); code != "CONFLICT" {
		t.Fatalf("code=%q", code)
	}
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	cases := map[string]string{
		"bad email":     `{"national_id":"1","name":"n","phone_number":"p","email":"nope","password":"pw","type":"citizen"}`,
		"unknown field": `{"national_id":"1","name":"n","phone_number":"p","email":"a@b.co","password":"pw","type":"citizen","admin":true}`,
		"unknown role":  `{"national_id":"1","name":"n","phone_number":"p","email":"a@b.co","password":"pw","type":"root"}`,
		"not json":      `national_id=1`,
		"two objects":   `{"national_id":"1"}{"national_id":"2"}`,
	}
	for name, body := range cases {
		rec := api.do(http.MethodPost, "/mobile/signup/", "", body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: status=%d body=%s", name, rec.Code, rec.Body.String())
		}
	}
}

func TestUsers(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	api.signup("123", "pw")
	tok := api.login("123", "pw")

	api.expect(api.do(http.MethodGet, "/mobile/users/", "", nil), http.StatusUnauthorized)

	rec := api.do(http.MethodGet, "/mobile/users/", tok, nil)
	api.expect(rec, http.StatusOK)
	var list []Account
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].NationalId != "123" {
		t.Fatalf("list=%+v", list)
	}

	api.expect(api.do(http.MethodGet, "/mobile/users/123", tok, nil), http.StatusOK)
	rec = api.do(http.MethodGet, "/mobile/users/999", tok, nil)
	api.expect(rec, http.StatusNotFound)
	if code := decodeErrorCode(t, rec); code != "NOT_FOUND" {
		t.Fatalf("code=%q", code)
	}
}

func TestVehiclesScenario(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	api.signup("123", "pw")
	tok := api.login("123", "pw")

	// Unknown owner and wrong password are both rejected.
	api.expect(api.do(http.MethodPost, "/mobile/vehicles/", tok, map[string]any{
		"national_id": "999", "password": "pw", "vehicle": "12A345", "vehicle_type": "car",
	}), http.StatusUnauthorized)
	api.expect(api.do(http.MethodPost, "/mobile/vehicles/", tok, map[string]any{
		"national_id": "123", "password": "wrong", "vehicle": "12A345", "vehicle_type": "car",
	}), http.StatusUnauthorized)

	// Zero vehicles: by-owner is 404, list-all is empty.
	api.expect(api.do(http.MethodGet, "/mobile/vehicles/123", tok, nil), http.StatusNotFound)
	rec := api.do(http.MethodGet, "/mobile/vehicles/", tok, nil)
	api.expect(rec, http.StatusOK)
	if got := bytes.TrimSpace(rec.Body.Bytes()); string(got) != "[]" {
		t.Fatalf("list-all body=%s want []", got)
	}

	rec = api.do(http.MethodPost, "/mobile/vehicles/", tok, map[string]any{
		"national_id": "123", "password": "pw", "vehicle": "12A345", "vehicle_type": "car",
	})
	api.expect(rec, http.StatusOK)
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Fatalf("vehicle response leaks password: %s", rec.Body.String())
	}

	rec = api.do(http.MethodGet, "/mobile/vehicles/123", tok, nil)
	api.expect(rec, http.StatusOK)
	var mine []Vehicle
	if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mine) != 1 || mine[0].Vehicle != "12A345" {
		t.Fatalf("mine=%+v", mine)
	}
}

func TestTrafficSignalScenario(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	api.signup("123", "pw")
	tok := api.login("123", "pw")

	api.expect(api.do(http.MethodGet, "/traffic-lights/", "", nil), http.StatusUnauthorized)

	api.expect(api.do(http.MethodPost, "/traffic-lights/", tok, map[string]any{
		"lat": 1.0, "lon": 2.0, "tl_id_sumo": "A", "tl_id_osm": "B",
	}), http.StatusOK)

	rec := api.do(http.MethodGet, "/traffic-lights/1.0/2.0", tok, nil)
	api.expect(rec, http.StatusOK)
	var got TrafficSignal
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != (TrafficSignal{Lat: 1, Lon: 2, TlIdSumo: "A", TlIdOsm: "B"}) {
		t.Fatalf("got=%+v", got)
	}

	api.expect(api.do(http.MethodPut, "/traffic-lights/1.0/2.0/", tok, map[string]any{
		"lat": 3.0, "lon": 4.0, "tl_id_sumo": "C", "tl_id_osm": "D",
	}), http.StatusOK)
	api.expect(api.do(http.MethodGet, "/traffic-lights/1.0/2.0", tok, nil), http.StatusNotFound)

	rec = api.do(http.MethodGet, "/traffic-lights/3/4", tok, nil)
	api.expect(rec, http.StatusOK)
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TlIdSumo != "C" || got.TlIdOsm != "D" {
		t.Fatalf("got=%+v", got)
	}

	api.expect(api.do(http.MethodDelete, "/traffic-lights/3.0/4.0", tok, nil), http.StatusOK)
	api.expect(api.do(http.MethodGet, "/traffic-lights/3.0/4.0", tok, nil), http.StatusNotFound)
	api.expect(api.do(http.MethodDelete, "/traffic-lights/3.0/4.0", tok, nil), http.StatusNotFound)
}

func TestTrafficSignal_Validation(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	api.signup("123", "pw")
	tok := api.login("123", "pw")

	api.expect(api.do(http.MethodGet, "/traffic-lights/north/2.0", tok, nil), http.StatusUnprocessableEntity)
	api.expect(api.do(http.MethodPost, "/traffic-lights/", tok, map[string]any{
		"lon": 2.0, "tl_id_sumo": "A", "tl_id_osm": "B",
	}), http.StatusUnprocessableEntity)
	api.expect(api.do(http.MethodPost, "/traffic-lights/", tok, map[string]any{
		"lat": 95.0, "lon": 2.0, "tl_id_sumo": "A", "tl_id_osm": "B",
	}), http.StatusUnprocessableEntity)
}

func TestRLOnline_ListsTablesWithoutAuth(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/rl-online/", "", nil)
	api.expect(rec, http.StatusOK)
	var got TablesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Tables) != 3 {
		t.Fatalf("tables=%v", got.Tables)
	}
}

func TestErrorEnvelope_CarriesRequestID(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/mobile/users/", "", nil)
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	rid, err := body.Error.RequestId.Get()
	if err != nil || rid == "" {
		t.Fatalf("requestId missing: %s", rec.Body.String())
	}
}

func TestUsers_ListReturnsStoredEmailVerbatim(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	api.signup("123", "pw")
	tok := api.login("123", "pw")

	// Rows written before address validation existed.
	if err := api.accounts.Create(context.Background(), accountrepo.Account{
		NationalID:   "777",
		Name:         "Legacy",
		PhoneNumber:  "1",
		Email:        "legacy-at-example",
		PasswordHash: "x",
		Role:         domain.RoleCitizen,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := api.do(http.MethodGet, "/mobile/users/", tok, nil)
	api.expect(rec, http.StatusOK)
	var list []Account
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v (body=%q)", err, rec.Body.String())
	}
	if len(list) != 2 || list[1].Email != "legacy-at-example" {
		t.Fatalf("list=%+v", list)
	}
}

func TestSignup_OversizedBody_413(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	body := `{"national_id":"1","name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := api.do(http.MethodPost, "/mobile/signup/", "", body)
	api.expect(rec, http.StatusRequestEntityTooLarge)
	if code := decodeErrorCode(t, rec); code != "PAYLOAD_TOO_LARGE" {
		t.Fatalf("code=%q", code)
	}
}
