package accountrepo

import (
	"context"
	"testing"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/accountrepo"
)

func TestRepo_CreateAndGet(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	a := accountrepo.Account{
		NationalID:   "123",
		Name:         "Alice",
		PhoneNumber:  "555-0100",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleCitizen,
	}
	if err := r.Create(context.Background(), a); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	got, err := r.GetByNationalID(context.Background(), "123")
	if err != nil {
		t.Fatalf("GetByNationalID() err=%v", err)
	}
	if got != a {
		t.Fatalf("GetByNationalID()=%+v, want %+v", got, a)
	}
	if !r.Exists("123") || r.Exists("456") {
		t.Fatalf("Exists() mismatch")
	}
}

func TestRepo_CreateRejectsDuplicate(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	if err := r.Create(context.Background(), accountrepo.Account{NationalID: "123", Name: "A"}); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if err := r.Create(context.Background(), accountrepo.Account{NationalID: "123", Name: "B"}); err != accountrepo.ErrAlreadyExists {
		t.Fatalf("Create(dup) err=%v, want %v", err, accountrepo.ErrAlreadyExists)
	}
	got, _ := r.GetByNationalID(context.Background(), "123")
	if got.Name != "A" {
		t.Fatalf("original overwritten: %+v", got)
	}
}

func TestRepo_ListOrdersByNationalID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	_ = r.Create(context.Background(), accountrepo.Account{NationalID: "3"})
	_ = r.Create(context.Background(), accountrepo.Account{NationalID: "1"})
	_ = r.Create(context.Background(), accountrepo.Account{NationalID: "2"})

	got, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	if len(got) != 3 || got[0].NationalID != "1" || got[1].NationalID != "2" || got[2].NationalID != "3" {
		t.Fatalf("List()=%+v", got)
	}
}
