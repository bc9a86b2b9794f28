package accountrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/accountrepo"
)

// Repo is an in-memory implementation of accountrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.NationalID]accountrepo.Account
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.NationalID]accountrepo.Account),
	}
}

func (r *Repo) Create(ctx context.Context, a accountrepo.Account) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.NationalID]; ok {
		return accountrepo.ErrAlreadyExists
	}
	r.byID[a.NationalID] = a
	return nil
}

func (r *Repo) GetByNationalID(ctx context.Context, id domain.NationalID) (accountrepo.Account, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return accountrepo.Account{}, accountrepo.ErrNotFound
	}
	return a, nil
}

// Exists reports whether an account is stored under id.
func (r *Repo) Exists(id domain.NationalID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}

func (r *Repo) List(ctx context.Context) ([]accountrepo.Account, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]accountrepo.Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NationalID < out[j].NationalID })
	return out, nil
}
