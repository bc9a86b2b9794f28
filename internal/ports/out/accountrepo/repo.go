package accountrepo

import (
	"context"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
)

// Account is the persistence shape used by the account repository.
// Unlike domain.Account it carries the password hash.
type Account struct {
	NationalID   domain.NationalID
	Name         string
	PhoneNumber  string
	Email        string
	PasswordHash string
	Role         domain.Role
}

// Repository provides access to persisted accounts.
//
// List returns accounts ordered by national id.
type Repository interface {
	Create(ctx context.Context, a Account) error
	GetByNationalID(ctx context.Context, id domain.NationalID) (Account, error)
	List(ctx context.Context) ([]Account, error)
}
