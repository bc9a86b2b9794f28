package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/apperr"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/accountrepo"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/vehiclerepo"
)

// Verifier checks a plaintext password against a stored digest.
type Verifier interface {
	Verify(plaintext, digest string) (bool, error)
}

type Service struct {
	accounts accountrepo.Repository
	vehicles vehiclerepo.Repository
	verifier Verifier
}

func NewService(accounts accountrepo.Repository, vehicles vehiclerepo.Repository, verifier Verifier) *Service {
	return &Service{accounts: accounts, vehicles: vehicles, verifier: verifier}
}

// CreateInput registers a vehicle. Password is the owner's account password.
type CreateInput struct {
	NationalID  string
	Password    string
	Vehicle     string
	VehicleType string
}

// Create registers a vehicle under its owner after re-checking the owner's password.
// The vehicle shares the owner's credential rather than storing one of its own.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Vehicle, error) {
	owner := domain.NationalID(strings.TrimSpace(in.NationalID))
	vehicle := strings.TrimSpace(in.Vehicle)
	vehicleType := strings.TrimSpace(in.VehicleType)

	details := map[string]any{}
	if owner == "" {
		details["national_id"] = "must be non-empty"
	}
	if in.Password == "" {
		details["password"] = "must be non-empty"
	}
	if vehicle == "" {
		details["vehicle"] = "must be non-empty"
	}
	if vehicleType == "" {
		details["vehicle_type"] = "must be non-empty"
	}
	if len(details) > 0 {
		return domain.Vehicle{}, apperr.Validation("invalid vehicle", details)
	}

	acct, err := s.accounts.GetByNationalID(ctx, owner)
	if err != nil {
		if errors.Is(err, accountrepo.ErrNotFound) {
			return domain.Vehicle{}, invalidCredentials()
		}
		return domain.Vehicle{}, apperr.Store(err)
	}
	ok, err := s.verifier.Verify(in.Password, acct.PasswordHash)
	if err != nil {
		ae := apperr.Unauthorized("Invalid national ID or password")
		ae.Cause = fmt.Errorf("verify password for account %s: %w", acct.NationalID, err)
		return domain.Vehicle{}, ae
	}
	if !ok {
		return domain.Vehicle{}, invalidCredentials()
	}

	rec := vehiclerepo.Vehicle{
		NationalID:          acct.NationalID,
		Vehicle:             vehicle,
		VehicleType:         vehicleType,
		CredentialAccountID: acct.NationalID,
	}
	if err := s.vehicles.Create(ctx, rec); err != nil {
		// The owner was removed between the lookup and the insert.
		if errors.Is(err, vehiclerepo.ErrOwnerNotFound) {
			return domain.Vehicle{}, invalidCredentials()
		}
		return domain.Vehicle{}, apperr.Store(err)
	}
	return toDomain(rec), nil
}

func (s *Service) List(ctx context.Context) ([]domain.Vehicle, error) {
	recs, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return toDomainList(recs), nil
}

// ListByOwner returns the vehicles of one account. An owner with no vehicles is
// reported as NotFound, whether or not the account exists.
func (s *Service) ListByOwner(ctx context.Context, owner domain.NationalID) ([]domain.Vehicle, error) {
	recs, err := s.vehicles.ListByOwner(ctx, owner)
	if err != nil {
		return nil, apperr.Store(err)
	}
	if len(recs) == 0 {
		return nil, apperr.NotFound("No vehicles found for this user")
	}
	return toDomainList(recs), nil
}

func invalidCredentials() error {
	return apperr.Unauthorized("Invalid national ID or password")
}

func toDomain(r vehiclerepo.Vehicle) domain.Vehicle {
	return domain.Vehicle{
		NationalID:  r.NationalID,
		Vehicle:     r.Vehicle,
		VehicleType: r.VehicleType,
		Credential:  domain.SharedCredential{AccountID: r.CredentialAccountID},
	}
}

func toDomainList(recs []vehiclerepo.Vehicle) []domain.Vehicle {
	out := make([]domain.Vehicle, 0, len(recs))
	for _, r := range recs {
		out = append(out, toDomain(r))
	}
	return out
}
