package signalrepo

import (
	"context"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
)

// Repository provides access to persisted traffic signals.
//
// Coordinates are matched exactly. Create does not check for an existing signal at the
// same coordinates. Update and Delete return ErrNotFound when nothing matched.
type Repository interface {
	Create(ctx context.Context, s domain.TrafficSignal) error
	List(ctx context.Context) ([]domain.TrafficSignal, error)
	Get(ctx context.Context, at domain.Coordinates) (domain.TrafficSignal, error)
	Update(ctx context.Context, at domain.Coordinates, s domain.TrafficSignal) error
	Delete(ctx context.Context, at domain.Coordinates) error
}
