package vehiclerepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/vehiclerepo"
)

// Repo is a Postgres implementation of vehiclerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, v vehiclerepo.Vehicle) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	credential := v.CredentialAccountID
	if credential == "" {
		credential = v.NationalID
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO vehicles (national_id, vehicle, vehicle_type, credential_account_id)
		VALUES ($1, $2, $3, $4)
	`,
		string(v.NationalID),
		v.Vehicle,
		v.VehicleType,
		string(credential),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.ForeignKeyViolationCode {
			return vehiclerepo.ErrOwnerNotFound
		}
		return postgres.Classify("create vehicle", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]vehiclerepo.Vehicle, error) {
	return r.query(ctx, "list vehicles", `
		SELECT national_id, vehicle, vehicle_type, credential_account_id
		FROM vehicles
		ORDER BY national_id ASC, id ASC
	`)
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.NationalID) ([]vehiclerepo.Vehicle, error) {
	return r.query(ctx, "list vehicles by owner", `
		SELECT national_id, vehicle, vehicle_type, credential_account_id
		FROM vehicles
		WHERE national_id = $1
		ORDER BY id ASC
	`, string(owner))
}

func (r *Repo) query(ctx context.Context, op string, sql string, args ...any) ([]vehiclerepo.Vehicle, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.Classify(op, err)
	}
	defer rows.Close()

	out := make([]vehiclerepo.Vehicle, 0)
	for rows.Next() {
		var nationalID, vehicle, vehicleType, credential string
		if err := rows.Scan(&nationalID, &vehicle, &vehicleType, &credential); err != nil {
			return nil, postgres.Classify(op, err)
		}
		out = append(out, vehiclerepo.Vehicle{
			NationalID:          domain.NationalID(nationalID),
			Vehicle:             vehicle,
			VehicleType:         vehicleType,
			CredentialAccountID: domain.NationalID(credential),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.Classify(op, err)
	}
	return out, nil
}
