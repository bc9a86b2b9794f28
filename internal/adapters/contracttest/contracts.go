// Package contracttest holds repository behavior shared by every store adapter.
// Each adapter package runs these suites against its own implementation.
package contracttest

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	accountrepoport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/accountrepo"
	catalogport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/catalog"
	signalrepoport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/signalrepo"
	vehiclerepoport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/vehiclerepo"
)

type CleanupFunc = func()

type AccountRepoFactory func(t *testing.T) (accountrepoport.Repository, CleanupFunc)

// VehicleRepoFactory returns a vehicle repo together with the account repo whose
// rows satisfy its owner reference.
type VehicleRepoFactory func(t *testing.T) (accountrepoport.Repository, vehiclerepoport.Repository, CleanupFunc)

type SignalRepoFactory func(t *testing.T) (signalrepoport.Repository, CleanupFunc)
type CatalogFactory func(t *testing.T) (catalogport.Catalog, CleanupFunc)

func account(id, name string) accountrepoport.Account {
	return accountrepoport.Account{
		NationalID:   domain.NationalID(id),
		Name:         name,
		PhoneNumber:  "555-0100",
		Email:        name + "@example.com",
		PasswordHash: "$2a$10$digest-" + id,
		Role:         domain.RoleCitizen,
	}
}

func RunAccountRepo(t *testing.T, newRepo AccountRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	if _, err := repo.GetByNationalID(ctx, "missing"); !errors.Is(err, accountrepoport.ErrNotFound) {
		t.Fatalf("GetByNationalID missing: got=%v want=%v", err, accountrepoport.ErrNotFound)
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List empty: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}

	b := account("B200", "bob")
	b.Role = domain.RoleOperator
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	a := account("A100", "alice")
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create a: %v", err)
	}

	got, err := repo.GetByNationalID(ctx, "B200")
	if err != nil {
		t.Fatalf("GetByNationalID: %v", err)
	}
	if got != b {
		t.Fatalf("round trip mismatch: got=%+v want=%+v", got, b)
	}

	// National id uniqueness; the original row must survive.
	dup := account("A100", "mallory")
	if err := repo.Create(ctx, dup); !errors.Is(err, accountrepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate: got=%v want=%v", err, accountrepoport.ErrAlreadyExists)
	}
	got, err = repo.GetByNationalID(ctx, "A100")
	if err != nil {
		t.Fatalf("GetByNationalID after dup: %v", err)
	}
	if got.Name != "alice" {
		t.Fatalf("duplicate overwrote row: got name=%q", got.Name)
	}

	list, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].NationalID != "A100" || list[1].NationalID != "B200" {
		t.Fatalf("unexpected list order: %+v", list)
	}
}

func RunVehicleRepo(t *testing.T, newRepos VehicleRepoFactory) {
	t.Helper()
	ctx := context.Background()

	accounts, vehicles, cleanup := newRepos(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Unknown owners are rejected.
	err := vehicles.Create(ctx, vehiclerepoport.Vehicle{NationalID: "ghost", Vehicle: "X-1", VehicleType: "car"})
	if !errors.Is(err, vehiclerepoport.ErrOwnerNotFound) {
		t.Fatalf("Create unknown owner: got=%v want=%v", err, vehiclerepoport.ErrOwnerNotFound)
	}

	for _, a := range []accountrepoport.Account{account("A100", "alice"), account("B200", "bob")} {
		if err := accounts.Create(ctx, a); err != nil {
			t.Fatalf("Create account %s: %v", a.NationalID, err)
		}
	}

	if got, err := vehicles.ListByOwner(ctx, "A100"); err != nil || len(got) != 0 {
		t.Fatalf("ListByOwner before insert: got=%+v err=%v", got, err)
	}

	in := []vehiclerepoport.Vehicle{
		{NationalID: "B200", Vehicle: "BUS-7", VehicleType: "bus", CredentialAccountID: "B200"},
		{NationalID: "A100", Vehicle: "CAR-1", VehicleType: "car"},
		{NationalID: "A100", Vehicle: "TRUCK-2", VehicleType: "truck", CredentialAccountID: "A100"},
	}
	for _, v := range in {
		if err := vehicles.Create(ctx, v); err != nil {
			t.Fatalf("Create %s: %v", v.Vehicle, err)
		}
	}

	mine, err := vehicles.ListByOwner(ctx, "A100")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(mine) != 2 || mine[0].Vehicle != "CAR-1" || mine[1].Vehicle != "TRUCK-2" {
		t.Fatalf("unexpected owner vehicles: %+v", mine)
	}
	// An empty credential reference defaults to the owner.
	if mine[0].CredentialAccountID != "A100" {
		t.Fatalf("credential default: got=%q want=%q", mine[0].CredentialAccountID, "A100")
	}

	all, err := vehicles.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	names := make([]string, 0, len(all))
	for _, v := range all {
		names = append(names, v.Vehicle)
	}
	if want := []string{"CAR-1", "TRUCK-2", "BUS-7"}; !slices.Equal(names, want) {
		t.Fatalf("List order: got=%v want=%v", names, want)
	}
}

func RunSignalRepo(t *testing.T, newRepo SignalRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	at := domain.Coordinates{Lat: 35.7, Lon: 51.4}
	if _, err := repo.Get(ctx, at); !errors.Is(err, signalrepoport.ErrNotFound) {
		t.Fatalf("Get missing: got=%v want=%v", err, signalrepoport.ErrNotFound)
	}
	if err := repo.Update(ctx, at, domain.TrafficSignal{Coordinates: at}); !errors.Is(err, signalrepoport.ErrNotFound) {
		t.Fatalf("Update missing: got=%v want=%v", err, signalrepoport.ErrNotFound)
	}
	if err := repo.Delete(ctx, at); !errors.Is(err, signalrepoport.ErrNotFound) {
		t.Fatalf("Delete missing: got=%v want=%v", err, signalrepoport.ErrNotFound)
	}

	first := domain.TrafficSignal{Coordinates: at, TLIDSumo: "J1", TLIDOSM: "N1"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Duplicates at the same coordinates are accepted; Get returns the earliest.
	if err := repo.Create(ctx, domain.TrafficSignal{Coordinates: at, TLIDSumo: "J2", TLIDOSM: "N2"}); err != nil {
		t.Fatalf("Create duplicate: %v", err)
	}
	other := domain.TrafficSignal{Coordinates: domain.Coordinates{Lat: -10.5, Lon: 20.25}, TLIDSumo: "J9", TLIDOSM: "N9"}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	got, err := repo.Get(ctx, at)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != first {
		t.Fatalf("Get: got=%+v want=%+v", got, first)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List: got %d signals want 3", len(list))
	}

	// Update rewrites every matching row, including the key.
	moved := domain.TrafficSignal{Coordinates: domain.Coordinates{Lat: 36, Lon: 52}, TLIDSumo: "J3", TLIDOSM: "N3"}
	if err := repo.Update(ctx, at, moved); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := repo.Get(ctx, at); !errors.Is(err, signalrepoport.ErrNotFound) {
		t.Fatalf("Get old key after update: got=%v want=%v", err, signalrepoport.ErrNotFound)
	}
	got, err = repo.Get(ctx, moved.Coordinates)
	if err != nil {
		t.Fatalf("Get new key: %v", err)
	}
	if got != moved {
		t.Fatalf("Get new key: got=%+v want=%+v", got, moved)
	}

	if err := repo.Delete(ctx, moved.Coordinates); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, moved.Coordinates); !errors.Is(err, signalrepoport.ErrNotFound) {
		t.Fatalf("Get after delete: got=%v want=%v", err, signalrepoport.ErrNotFound)
	}
	list, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(list) != 1 || list[0] != other {
		t.Fatalf("List after delete: %+v", list)
	}
}

func RunCatalog(t *testing.T, newCatalog CatalogFactory) {
	t.Helper()

	c, cleanup := newCatalog(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	tables, err := c.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	for _, want := range []string{"traffic_signals", "users", "vehicles"} {
		if !slices.Contains(tables, want) {
			t.Fatalf("ListTables: missing %q in %v", want, tables)
		}
	}
	if !slices.IsSorted(tables) {
		t.Fatalf("ListTables: not sorted: %v", tables)
	}
}
