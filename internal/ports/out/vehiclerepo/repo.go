package vehiclerepo

import (
	"context"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
)

// Vehicle is the persistence shape used by the vehicle repository.
//
// CredentialAccountID records which account's password authenticates the vehicle.
// Today it always equals NationalID.
type Vehicle struct {
	NationalID          domain.NationalID
	Vehicle             string
	VehicleType         string
	CredentialAccountID domain.NationalID
}

// Repository provides access to persisted vehicles.
//
// Results are ordered by owner then insertion order.
type Repository interface {
	Create(ctx context.Context, v Vehicle) error
	List(ctx context.Context) ([]Vehicle, error)
	ListByOwner(ctx context.Context, owner domain.NationalID) ([]Vehicle, error)
}
