package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/httpapi"
	memaccountrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/accountrepo"
	memcatalog "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/catalog"
	memclock "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/clock"
	memsignalrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/signalrepo"
	memvehiclerepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/vehiclerepo"
	pgaccountrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres/accountrepo"
	pgcatalog "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres/catalog"
	pgsignalrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres/signalrepo"
	postgres_testutil "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres/testutil"
	pgvehiclerepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres/vehiclerepo"
	sqliteaccountrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite/accountrepo"
	sqlitecatalog "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite/catalog"
	sqlitesignalrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite/signalrepo"
	sqlite_testutil "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite/testutil"
	sqlitevehiclerepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite/vehiclerepo"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/accounts"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/diagnostics"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/signals"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/vehicles"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/auth/password"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/auth/token"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/logging"
	accountrepoport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/accountrepo"
	catalogport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/catalog"
	signalrepoport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/signalrepo"
	vehiclerepoport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/vehiclerepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendSQLite   backend = "sqlite"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "sqlite":
		return []backend{backendSQLite}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendSQLite, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|sqlite|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
	clock   *memclock.ManualClock
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		accountRepo accountrepoport.Repository
		vehicleRepo vehiclerepoport.Repository
		signalRepo  signalrepoport.Repository
		catalog     catalogport.Catalog
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		accountRepo = pgaccountrepo.NewRepo(pool)
		vehicleRepo = pgvehiclerepo.NewRepo(pool)
		signalRepo = pgsignalrepo.NewRepo(pool)
		catalog = pgcatalog.New(pool)
	case backendSQLite:
		db := sqlite_testutil.OpenDB(t)
		accountRepo = sqliteaccountrepo.NewRepo(db)
		vehicleRepo = sqlitevehiclerepo.NewRepo(db)
		signalRepo = sqlitesignalrepo.NewRepo(db)
		catalog = sqlitecatalog.New(db)
	case backendMemory:
		accts := memaccountrepo.NewRepo()
		accountRepo = accts
		vehicleRepo = memvehiclerepo.NewRepo(accts)
		signalRepo = memsignalrepo.NewRepo()
		catalog = memcatalog.New()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	tokens, err := token.NewWithOptions("itest-secret-0123456789", time.Hour, clk)
	if err != nil {
		t.Fatalf("token.NewWithOptions: %v", err)
	}
	hasher := password.NewHasher(bcrypt.MinCost)

	api := httpapi.NewServer(
		accounts.NewService(accountRepo, hasher, tokens),
		vehicles.NewService(accountRepo, vehicleRepo, hasher),
		signals.NewService(signalRepo),
		diagnostics.NewService(catalog),
		logging.Discard(),
	)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{AuthMiddleware: httpapi.NewAuthMiddleware(tokens)})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		clock:   clk,
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, bearer string, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestId string `json:"requestId"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
