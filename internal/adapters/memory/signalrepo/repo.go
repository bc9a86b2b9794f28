package signalrepo

import (
	"context"
	"sync"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/signalrepo"
)

// Repo is an in-memory implementation of signalrepo.Repository.
// Signals are kept in insertion order. It is safe for concurrent use.
type Repo struct {
	mu      sync.RWMutex
	signals []domain.TrafficSignal
}

func NewRepo() *Repo {
	return &Repo{}
}

func (r *Repo) Create(ctx context.Context, s domain.TrafficSignal) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, s)
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.TrafficSignal, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TrafficSignal, len(r.signals))
	copy(out, r.signals)
	return out, nil
}

func (r *Repo) Get(ctx context.Context, at domain.Coordinates) (domain.TrafficSignal, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.signals {
		if s.Coordinates == at {
			return s, nil
		}
	}
	return domain.TrafficSignal{}, signalrepo.ErrNotFound
}

func (r *Repo) Update(ctx context.Context, at domain.Coordinates, s domain.TrafficSignal) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := false
	for i := range r.signals {
		if r.signals[i].Coordinates == at {
			r.signals[i] = s
			matched = true
		}
	}
	if !matched {
		return signalrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, at domain.Coordinates) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.signals[:0]
	for _, s := range r.signals {
		if s.Coordinates != at {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(r.signals) {
		return signalrepo.ErrNotFound
	}
	// Clear the tail so removed entries are not retained by the backing array.
	clear(r.signals[len(kept):])
	r.signals = kept
	return nil
}
