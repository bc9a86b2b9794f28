package signals

import (
	"context"
	"errors"
	"strings"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/apperr"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/signalrepo"
)

type Service struct {
	repo signalrepo.Repository
}

func NewService(repo signalrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Create stores s. Another signal at the same coordinates does not prevent it.
func (s *Service) Create(ctx context.Context, in domain.TrafficSignal) (domain.TrafficSignal, error) {
	sig, err := normalize(in)
	if err != nil {
		return domain.TrafficSignal{}, err
	}
	if err := s.repo.Create(ctx, sig); err != nil {
		return domain.TrafficSignal{}, apperr.Store(err)
	}
	return sig, nil
}

func (s *Service) List(ctx context.Context) ([]domain.TrafficSignal, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, at domain.Coordinates) (domain.TrafficSignal, error) {
	if err := validateCoordinates(at); err != nil {
		return domain.TrafficSignal{}, err
	}
	sig, err := s.repo.Get(ctx, at)
	if err != nil {
		return domain.TrafficSignal{}, mapRepoErr(err)
	}
	return sig, nil
}

// Update replaces every signal at the given coordinates, key included.
func (s *Service) Update(ctx context.Context, at domain.Coordinates, in domain.TrafficSignal) (domain.TrafficSignal, error) {
	if err := validateCoordinates(at); err != nil {
		return domain.TrafficSignal{}, err
	}
	sig, err := normalize(in)
	if err != nil {
		return domain.TrafficSignal{}, err
	}
	if err := s.repo.Update(ctx, at, sig); err != nil {
		return domain.TrafficSignal{}, mapRepoErr(err)
	}
	return sig, nil
}

func (s *Service) Delete(ctx context.Context, at domain.Coordinates) error {
	if err := validateCoordinates(at); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, at); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

func normalize(in domain.TrafficSignal) (domain.TrafficSignal, error) {
	out := domain.TrafficSignal{
		Coordinates: in.Coordinates,
		TLIDSumo:    strings.TrimSpace(in.TLIDSumo),
		TLIDOSM:     strings.TrimSpace(in.TLIDOSM),
	}
	details := map[string]any{}
	if !out.Coordinates.Valid() {
		details["lat"] = "must be within [-90, 90]"
		details["lon"] = "must be within [-180, 180]"
	}
	if out.TLIDSumo == "" {
		details["tl_id_sumo"] = "must be non-empty"
	}
	if out.TLIDOSM == "" {
		details["tl_id_osm"] = "must be non-empty"
	}
	if len(details) > 0 {
		return domain.TrafficSignal{}, apperr.Validation("invalid traffic signal", details)
	}
	return out, nil
}

func validateCoordinates(at domain.Coordinates) error {
	if at.Valid() {
		return nil
	}
	return apperr.Validation("invalid coordinates", map[string]any{
		"lat": "must be within [-90, 90]",
		"lon": "must be within [-180, 180]",
	})
}

func mapRepoErr(err error) error {
	if errors.Is(err, signalrepo.ErrNotFound) {
		return apperr.NotFound("Traffic signal not found")
	}
	return apperr.Store(err)
}
