package vehiclerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/vehiclerepo"
)

// OwnerLookup reports whether an account exists. It stands in for the foreign key
// the SQL stores enforce.
type OwnerLookup interface {
	Exists(id domain.NationalID) bool
}

// Repo is an in-memory implementation of vehiclerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	owners OwnerLookup

	mu       sync.RWMutex
	vehicles []vehiclerepo.Vehicle
}

// NewRepo returns a repo that rejects vehicles whose owner is unknown to owners.
// A nil owners accepts any owner.
func NewRepo(owners OwnerLookup) *Repo {
	return &Repo{owners: owners}
}

func (r *Repo) Create(ctx context.Context, v vehiclerepo.Vehicle) error {
	_ = ctx
	if v.CredentialAccountID == "" {
		v.CredentialAccountID = v.NationalID
	}
	if r.owners != nil && (!r.owners.Exists(v.NationalID) || !r.owners.Exists(v.CredentialAccountID)) {
		return vehiclerepo.ErrOwnerNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles = append(r.vehicles, v)
	return nil
}

func (r *Repo) List(ctx context.Context) ([]vehiclerepo.Vehicle, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vehiclerepo.Vehicle, len(r.vehicles))
	copy(out, r.vehicles)
	sort.SliceStable(out, func(i, j int) bool { return out[i].NationalID < out[j].NationalID })
	return out, nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.NationalID) ([]vehiclerepo.Vehicle, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vehiclerepo.Vehicle, 0)
	for _, v := range r.vehicles {
		if v.NationalID == owner {
			out = append(out, v)
		}
	}
	return out, nil
}
